package services

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
)

// passTxRunner выполняет fn без настоящей транзакции: in-memory репозитории
// консистентны сами по себе.
type passTxRunner struct{}

func (passTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type broadcastRecord struct {
	TournamentID int
	Event        string
}

type recordingHub struct {
	mu     sync.Mutex
	events []broadcastRecord
}

func (h *recordingHub) BroadcastToTournament(tournamentID int, eventType string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, broadcastRecord{TournamentID: tournamentID, Event: eventType})
}

func (h *recordingHub) eventNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.events))
	for i, e := range h.events {
		names[i] = e.Event
	}
	return names
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		cp := *t
		r.tournaments[t.ID] = &cp
	}
	return r
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = len(r.tournaments) + 1
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0)
	for i := 1; i <= len(r.tournaments); i++ {
		t, ok := r.tournaments[i]
		if !ok {
			continue
		}
		if filter.SeasonID != nil && t.SeasonID != *filter.SeasonID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateTimerState(ctx context.Context, exec repositories.SQLExecutor, id int, startedAt, pausedAt *time.Time, elapsedSeconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.TimerStartedAt = startedAt
	t.TimerPausedAt = pausedAt
	t.TimerElapsedSeconds = elapsedSeconds
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func (r *fakeTournamentRepo) get(id int) models.Tournament {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.tournaments[id]
}

type fakeBlindLevelRepo struct {
	mu     sync.Mutex
	levels map[int][]models.BlindLevel
}

func newFakeBlindLevelRepo() *fakeBlindLevelRepo {
	return &fakeBlindLevelRepo{levels: make(map[int][]models.BlindLevel)}
}

func (r *fakeBlindLevelRepo) ReplaceForTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, levels []models.BlindLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[tournamentID] = append([]models.BlindLevel(nil), levels...)
	return nil
}

func (r *fakeBlindLevelRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.BlindLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.BlindLevel(nil), r.levels[tournamentID]...), nil
}

func (r *fakeBlindLevelRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.levels[tournamentID]), nil
}

type fakeTournamentPlayerRepo struct {
	mu      sync.Mutex
	players map[int]*models.TournamentPlayer
	seq     int

	// failNextRebuysUpdate имитирует проигрыш оптимистичной гонки.
	failNextRebuysUpdate bool
}

func newFakeTournamentPlayerRepo(players ...*models.TournamentPlayer) *fakeTournamentPlayerRepo {
	r := &fakeTournamentPlayerRepo{players: make(map[int]*models.TournamentPlayer)}
	for _, tp := range players {
		cp := *tp
		r.seq++
		cp.UpdatedAt = time.Unix(int64(r.seq), 0)
		r.players[tp.ID] = &cp
	}
	return r
}

func (r *fakeTournamentPlayerRepo) touch(tp *models.TournamentPlayer) {
	r.seq++
	tp.UpdatedAt = time.Unix(int64(r.seq), 0)
}

func (r *fakeTournamentPlayerRepo) Create(ctx context.Context, tp *models.TournamentPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tp.ID = len(r.players) + 1
	cp := *tp
	r.touch(&cp)
	r.players[tp.ID] = &cp
	return nil
}

func (r *fakeTournamentPlayerRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TournamentPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tp, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrTournamentPlayerNotFound
	}
	cp := *tp
	return &cp, nil
}

func (r *fakeTournamentPlayerRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.TournamentPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TournamentPlayer, 0)
	for i := 1; i <= r.seq; i++ {
		tp, ok := r.players[i]
		if !ok || tp.TournamentID != tournamentID {
			continue
		}
		cp := *tp
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTournamentPlayerRepo) UpdateCounters(ctx context.Context, exec repositories.SQLExecutor, tp *models.TournamentPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.players[tp.ID]
	if !ok {
		return repositories.ErrTournamentPlayerNotFound
	}
	stored.RebuysCount = tp.RebuysCount
	stored.EliminationsCount = tp.EliminationsCount
	stored.BustEliminations = tp.BustEliminations
	stored.LeaderKills = tp.LeaderKills
	stored.PenaltyPoints = tp.PenaltyPoints
	r.touch(stored)
	return nil
}

func (r *fakeTournamentPlayerRepo) UpdateScores(ctx context.Context, exec repositories.SQLExecutor, id int, rankPoints, eliminationPoints, bonusPoints, totalPoints int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.players[id]
	if !ok {
		return repositories.ErrTournamentPlayerNotFound
	}
	stored.RankPoints = rankPoints
	stored.EliminationPoints = eliminationPoints
	stored.BonusPoints = bonusPoints
	stored.TotalPoints = totalPoints
	r.touch(stored)
	return nil
}

func (r *fakeTournamentPlayerRepo) SetFinalRank(ctx context.Context, exec repositories.SQLExecutor, id int, finalRank *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.players[id]
	if !ok {
		return repositories.ErrTournamentPlayerNotFound
	}
	stored.FinalRank = finalRank
	r.touch(stored)
	return nil
}

func (r *fakeTournamentPlayerRepo) UpdateRebuysCountIf(ctx context.Context, exec repositories.SQLExecutor, id, expectedCount, newCount, newPenalty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.players[id]
	if !ok {
		return repositories.ErrTournamentPlayerNotFound
	}
	if r.failNextRebuysUpdate || stored.RebuysCount != expectedCount {
		r.failNextRebuysUpdate = false
		return repositories.ErrStaleRebuysCount
	}
	stored.RebuysCount = newCount
	stored.PenaltyPoints = newPenalty
	r.touch(stored)
	return nil
}

func (r *fakeTournamentPlayerRepo) GetLatestWithRebuys(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.TournamentPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.TournamentPlayer
	for _, tp := range r.players {
		if tp.TournamentID != tournamentID || tp.RebuysCount == 0 {
			continue
		}
		if latest == nil || tp.UpdatedAt.After(latest.UpdatedAt) {
			latest = tp
		}
	}
	if latest == nil {
		return nil, repositories.ErrTournamentPlayerNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeTournamentPlayerRepo) get(id int) models.TournamentPlayer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.players[id]
}

type fakeBustEventRepo struct {
	mu    sync.Mutex
	busts []*models.BustEvent
	clock *eventClock
}

type fakeEliminationRepo struct {
	mu           sync.Mutex
	eliminations []*models.Elimination
	clock        *eventClock
}

// eventClock выдаёт строго возрастающие метки created_at: фейковые журналы
// разделяют его, чтобы порядок событий между таблицами был сравним.
type eventClock struct {
	mu   sync.Mutex
	base time.Time
	seq  int
}

func newEventClock() *eventClock {
	return &eventClock{base: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)}
}

func (c *eventClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.base.Add(time.Duration(c.seq) * time.Second)
}

func newFakeBustEventRepo(clock *eventClock) *fakeBustEventRepo {
	return &fakeBustEventRepo{clock: clock}
}

func (r *fakeBustEventRepo) Create(ctx context.Context, exec repositories.SQLExecutor, b *models.BustEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = len(r.busts) + 1
	b.CreatedAt = r.clock.next()
	cp := *b
	r.busts = append(r.busts, &cp)
	return nil
}

func (r *fakeBustEventRepo) GetLastByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.BustEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.busts) - 1; i >= 0; i-- {
		if r.busts[i].TournamentID == tournamentID {
			cp := *r.busts[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrBustEventNotFound
}

func (r *fakeBustEventRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.BustEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.BustEvent, 0)
	for _, b := range r.busts {
		if b.TournamentID == tournamentID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBustEventRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.busts {
		if b.ID == id {
			r.busts = append(r.busts[:i], r.busts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrBustEventNotFound
}

func newFakeEliminationRepo(clock *eventClock) *fakeEliminationRepo {
	return &fakeEliminationRepo{clock: clock}
}

func (r *fakeEliminationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.Elimination) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = len(r.eliminations) + 1
	e.CreatedAt = r.clock.next()
	cp := *e
	r.eliminations = append(r.eliminations, &cp)
	return nil
}

func (r *fakeEliminationRepo) GetLastByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.Elimination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.eliminations) - 1; i >= 0; i-- {
		if r.eliminations[i].TournamentID == tournamentID {
			cp := *r.eliminations[i]
			return &cp, nil
		}
	}
	return nil, repositories.ErrEliminationNotFound
}

func (r *fakeEliminationRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Elimination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Elimination, 0)
	for _, e := range r.eliminations {
		if e.TournamentID == tournamentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEliminationRepo) ExistsCreatedAfter(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, after time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.eliminations {
		if e.TournamentID == tournamentID && e.CreatedAt.After(after) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEliminationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.eliminations {
		if e.ID == id {
			r.eliminations = append(r.eliminations[:i], r.eliminations[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEliminationNotFound
}

type fakeSeasonRepo struct {
	mu      sync.Mutex
	seasons map[int]*models.Season
}

func newFakeSeasonRepo(seasons ...*models.Season) *fakeSeasonRepo {
	r := &fakeSeasonRepo{seasons: make(map[int]*models.Season)}
	for _, s := range seasons {
		cp := *s
		r.seasons[s.ID] = &cp
	}
	return r
}

func (r *fakeSeasonRepo) Create(ctx context.Context, season *models.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	season.ID = len(r.seasons) + 1
	cp := *season
	r.seasons[season.ID] = &cp
	return nil
}

func (r *fakeSeasonRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSeasonRepo) List(ctx context.Context) ([]models.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Season, 0, len(r.seasons))
	for i := 1; i <= len(r.seasons); i++ {
		if s, ok := r.seasons[i]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSeasonRepo) Update(ctx context.Context, season *models.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seasons[season.ID]; !ok {
		return repositories.ErrSeasonNotFound
	}
	cp := *season
	r.seasons[season.ID] = &cp
	return nil
}

func (r *fakeSeasonRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seasons[id]; !ok {
		return repositories.ErrSeasonNotFound
	}
	delete(r.seasons, id)
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[int]*models.Player
}

func newFakePlayerRepo(players ...*models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[int]*models.Player)}
	for _, p := range players {
		cp := *p
		r.players[p.ID] = &cp
	}
	return r
}

func (r *fakePlayerRepo) Create(ctx context.Context, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.players {
		if existing.Email == p.Email {
			return repositories.ErrPlayerEmailConflict
		}
		if existing.Nickname == p.Nickname {
			return repositories.ErrPlayerNicknameConflict
		}
	}
	p.ID = len(r.players) + 1
	cp := *p
	r.players[p.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) ListByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]*models.Player, len(ids))
	for _, id := range ids {
		if p, ok := r.players[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}
