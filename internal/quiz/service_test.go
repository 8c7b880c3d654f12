package quiz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/robalobadob/numeros/internal/common/clock/mocks"
	"github.com/robalobadob/numeros/internal/daily"
	"github.com/robalobadob/numeros/internal/game"
	"github.com/robalobadob/numeros/internal/store"
	storeMocks "github.com/robalobadob/numeros/internal/store/mocks"
)

type fixedUUID string

func (f fixedUUID) NewUUID() string { return string(f) }

type QuizServiceTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockStore *storeMocks.MockStore
	mockClock *mocks.MockClock
	service   *Service
	ctx       context.Context

	testTime   time.Time
	testGameID string
}

func (s *QuizServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockStore = storeMocks.NewMockStore(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testGameID = "test-game-id"

	svc, err := New(&Config{
		Store:     s.mockStore,
		Clock:     s.mockClock,
		UUID:      fixedUUID(s.testGameID),
		DailySalt: "test-salt",
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *QuizServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestQuizServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QuizServiceTestSuite))
}

func (s *QuizServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)
	_, err = New(&Config{Clock: s.mockClock, UUID: fixedUUID("x")})
	s.ErrorIs(err, ErrNilStore)
	_, err = New(&Config{Store: s.mockStore, UUID: fixedUUID("x")})
	s.ErrorIs(err, ErrNilClock)
	_, err = New(&Config{Store: s.mockStore, Clock: s.mockClock})
	s.ErrorIs(err, ErrNilUUID)
}

func (s *QuizServiceTestSuite) TestStartRandom() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockStore.EXPECT().Save(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, g *game.Game) error {
		s.Equal(s.testGameID, g.ID)
		s.Equal(game.ModeRandom, g.Mode)
		s.Equal(1, g.Round)
		return nil
	})

	g, err := s.service.Start(s.ctx, game.ModeRandom)
	s.Require().NoError(err)
	s.Equal(s.testTime, g.StartedAt)
	s.Equal(game.DefaultRounds, g.Rounds)
}

func (s *QuizServiceTestSuite) TestStartDailyUsesDateSeed() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockStore.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	g, err := s.service.StartWithID(s.ctx, "tg-42", game.ModeDaily)
	s.Require().NoError(err)
	s.Equal("tg-42", g.ID)
	s.Equal(daily.Seed(s.testTime, "test-salt"), g.Seed)
}

func (s *QuizServiceTestSuite) TestStartSaveError() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	saveErr := errors.New("boom")
	s.mockStore.EXPECT().Save(s.ctx, gomock.Any()).Return(saveErr)

	_, err := s.service.Start(s.ctx, game.ModeRandom)
	s.ErrorIs(err, saveErr)
}

func (s *QuizServiceTestSuite) TestGetTicks() {
	stored := game.New(s.testGameID, game.ModeRandom, 1, 0, s.testTime)
	s.mockStore.EXPECT().Get(s.ctx, s.testGameID).Return(stored, nil)
	s.mockClock.EXPECT().Now().Return(s.testTime.Add(65 * time.Second))

	g, err := s.service.Get(s.ctx, s.testGameID)
	s.Require().NoError(err)
	s.Equal("1:05", game.FormatElapsed(g.Elapsed))
}

func (s *QuizServiceTestSuite) TestGetNotFound() {
	s.mockStore.EXPECT().Get(s.ctx, "missing").Return(nil, store.ErrNotFound)

	_, err := s.service.Get(s.ctx, "missing")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *QuizServiceTestSuite) TestAnswerCorrect() {
	stored := game.New(s.testGameID, game.ModeRandom, 1, 0, s.testTime)
	correct := stored.Options.Correct
	s.mockStore.EXPECT().Get(s.ctx, s.testGameID).Return(stored, nil)
	s.mockClock.EXPECT().Now().Return(s.testTime.Add(5 * time.Second)).AnyTimes()
	s.mockStore.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	g, res, err := s.service.Answer(s.ctx, s.testGameID, 1, correct)
	s.Require().NoError(err)
	s.True(res.Correct)
	s.Equal(1, g.Score)
	s.Equal(2, g.Round)
	s.Equal(5*time.Second, g.Elapsed)
}

func (s *QuizServiceTestSuite) TestAnswerStaleRound() {
	stored := game.New(s.testGameID, game.ModeRandom, 1, 0, s.testTime)
	s.mockStore.EXPECT().Get(s.ctx, s.testGameID).Return(stored, nil)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	g, _, err := s.service.Answer(s.ctx, s.testGameID, 4, 0)
	s.ErrorIs(err, ErrStaleRound)
	s.Equal(1, g.Round)
}

func (s *QuizServiceTestSuite) TestAnswerInvalidChoiceNotSaved() {
	stored := game.New(s.testGameID, game.ModeRandom, 1, 0, s.testTime)
	s.mockStore.EXPECT().Get(s.ctx, s.testGameID).Return(stored, nil)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	_, _, err := s.service.Answer(s.ctx, s.testGameID, 0, 7)
	s.ErrorIs(err, game.ErrInvalidChoice)
}

func (s *QuizServiceTestSuite) TestSkip() {
	stored := game.New(s.testGameID, game.ModeRandom, 1, 0, s.testTime)
	s.mockStore.EXPECT().Get(s.ctx, s.testGameID).Return(stored, nil)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockStore.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	g, err := s.service.Skip(s.ctx, s.testGameID, 1)
	s.Require().NoError(err)
	s.Equal(2, g.Round)
	s.Equal(0, g.Score)
}

func (s *QuizServiceTestSuite) TestRestartDailyReplaysNumbers() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	stored := game.New(s.testGameID, game.ModeDaily, daily.Seed(s.testTime, "test-salt"), 0, s.testTime)
	firstTarget := stored.Target
	s.Require().NoError(stored.Skip(s.testTime))

	s.mockStore.EXPECT().Get(s.ctx, s.testGameID).Return(stored, nil)
	s.mockStore.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	g, err := s.service.Restart(s.ctx, s.testGameID)
	s.Require().NoError(err)
	s.Equal(1, g.Round)
	s.Equal(firstTarget, g.Target)
}

// A full session through the service: k correct answers give score k and
// the round counter stops at 10.
func (s *QuizServiceTestSuite) TestFullSessionScores() {
	mem := store.NewMemoryStore()
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	svc, err := New(&Config{Store: mem, Clock: s.mockClock, UUID: fixedUUID("full")})
	s.Require().NoError(err)

	for _, k := range []int{0, 4, 10} {
		g, err := svc.Start(s.ctx, game.ModeRandom)
		s.Require().NoError(err)
		for i := 0; i < game.DefaultRounds; i++ {
			choice := (g.Options.Correct + 1) % 3
			if i < k {
				choice = g.Options.Correct
			}
			g, _, err = svc.Answer(s.ctx, g.ID, g.Round, choice)
			s.Require().NoError(err)
		}
		s.True(g.Finished)
		s.Equal(game.DefaultRounds, g.Round)
		s.Equal(k, g.Score)
	}
}

func (s *QuizServiceTestSuite) TestDiscard() {
	s.mockStore.EXPECT().Delete(s.ctx, s.testGameID).Return(nil)
	s.NoError(s.service.Discard(s.ctx, s.testGameID))
}

func (s *QuizServiceTestSuite) TestDiscardMissingIsNoError() {
	s.mockStore.EXPECT().Delete(s.ctx, "gone").Return(store.ErrNotFound)
	s.NoError(s.service.Discard(s.ctx, "gone"))
}

func (s *QuizServiceTestSuite) TestDiscardStoreError() {
	delErr := errors.New("boom")
	s.mockStore.EXPECT().Delete(s.ctx, s.testGameID).Return(delErr)
	s.ErrorIs(s.service.Discard(s.ctx, s.testGameID), delErr)
}

// slowStore adds a round trip's worth of latency to every load and save.
type slowStore struct {
	*store.Memory
	delay time.Duration
}

func (st *slowStore) Get(ctx context.Context, id string) (*game.Game, error) {
	time.Sleep(st.delay)
	return st.Memory.Get(ctx, id)
}

func (st *slowStore) Save(ctx context.Context, g *game.Game) error {
	time.Sleep(st.delay)
	return st.Memory.Save(ctx, g)
}

// Simultaneous submissions for one round: only the first is applied, the
// rest see the round as already resolved.
func (s *QuizServiceTestSuite) TestConcurrentAnswersSameRound() {
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	mem := store.NewMemoryStore()
	svc, err := New(&Config{
		Store: &slowStore{Memory: mem, delay: 5 * time.Millisecond},
		Clock: s.mockClock,
		UUID:  fixedUUID("race"),
	})
	s.Require().NoError(err)

	g, err := svc.StartWithID(s.ctx, "race", game.ModeRandom)
	s.Require().NoError(err)
	correct := g.Options.Correct

	const submissions = 20
	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		stale    atomic.Int32
		start    = make(chan struct{})
	)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _, err := svc.Answer(s.ctx, "race", 1, correct)
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrStaleRound):
				stale.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int32(1), accepted.Load())
	s.Equal(int32(submissions-1), stale.Load())

	stored, err := mem.Get(s.ctx, "race")
	s.Require().NoError(err)
	s.Equal(2, stored.Round)
	s.Equal(1, stored.Score)
	s.Len(stored.Answers, 1)
	s.Zero(svc.locks.len())
}

func TestGameLocksSerializeSameID(t *testing.T) {
	locks := newGameLocks()
	unlock := locks.lock("a")

	// other IDs are not blocked
	done := make(chan struct{})
	go func() {
		locks.lock("b")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another id blocked")
	}

	acquired := make(chan struct{})
	go func() {
		locks.lock("a")()
		close(acquired)
	}()
	select {
	case <-acquired:
		t.Fatal("second lock on the same id did not wait")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
	if n := locks.len(); n != 0 {
		t.Fatalf("locks left behind: %d", n)
	}
}
