package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/Dosada05/poker-league/live"
	"github.com/Dosada05/poker-league/models"
	"github.com/Dosada05/poker-league/repositories"
	"github.com/Dosada05/poker-league/scoring"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService агрегирует сезонный зачёт. Сохранённые очковые поля —
// только кэш: оба метода пересчитывают очки через пакет scoring заново и
// никогда не доверяют значениям из БД как источнику истины.
type LeaderboardService interface {
	// RecalculateSeason пересчитывает очки всех игроков всех завершённых
	// турниров сезона и пишет только реально изменившиеся строки.
	// Возвращает число обновлений; повторный запуск подряд даёт ноль.
	RecalculateSeason(ctx context.Context, seasonID int) (int, error)
	ComputeLeaderboard(ctx context.Context, seasonID int) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	tx               TxRunner
	seasonRepo       repositories.SeasonRepository
	tournamentRepo   repositories.TournamentRepository
	tournamentPlayer repositories.TournamentPlayerRepository
	playerRepo       repositories.PlayerRepository
	hub              EventBroadcaster
	logger           *slog.Logger
}

func NewLeaderboardService(
	tx TxRunner,
	seasonRepo repositories.SeasonRepository,
	tournamentRepo repositories.TournamentRepository,
	tournamentPlayer repositories.TournamentPlayerRepository,
	playerRepo repositories.PlayerRepository,
	hub EventBroadcaster,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		tx:               tx,
		seasonRepo:       seasonRepo,
		tournamentRepo:   tournamentRepo,
		tournamentPlayer: tournamentPlayer,
		playerRepo:       playerRepo,
		hub:              hub,
		logger:           logger,
	}
}

func (s *leaderboardService) RecalculateSeason(ctx context.Context, seasonID int) (int, error) {
	season, tournaments, err := s.loadSeason(ctx, seasonID)
	if err != nil {
		return 0, err
	}

	totalUpdated := 0
	for _, tournament := range tournaments {
		updated := 0
		err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			players, err := s.tournamentPlayer.ListByTournament(ctx, exec, tournament.ID)
			if err != nil {
				return fmt.Errorf("failed to list players of tournament %d: %w", tournament.ID, err)
			}
			for _, tp := range players {
				b := scoring.PlayerBreakdown(tp, season)
				if b.RankPoints == tp.RankPoints &&
					b.EliminationPoints == tp.EliminationPoints &&
					b.BonusPoints == tp.BonusPoints &&
					b.TotalPoints == tp.TotalPoints {
					continue
				}
				if err := s.tournamentPlayer.UpdateScores(ctx, exec, tp.ID, b.RankPoints, b.EliminationPoints, b.BonusPoints, b.TotalPoints); err != nil {
					return err
				}
				updated++
			}
			return nil
		})
		if err != nil {
			return totalUpdated, err
		}
		if updated > 0 {
			s.hub.BroadcastToTournament(tournament.ID, live.EventSeasonRecalculated, map[string]interface{}{
				"season_id":      seasonID,
				"updated_scores": updated,
			})
		}
		totalUpdated += updated
	}

	s.logger.Info("season scores recalculated",
		slog.Int("season_id", seasonID),
		slog.Int("tournaments", len(tournaments)),
		slog.Int("updated", totalUpdated))
	return totalUpdated, nil
}

// ComputeLeaderboard строит сезонный зачёт по правилу best-N-of-M: в сумму
// очков идут только N лучших результатов игрока (все — если
// best_tournaments_count не задан), а победы и подиумы считаются по всем
// сыгранным турнирам, включая отброшенные из суммы.
func (s *leaderboardService) ComputeLeaderboard(ctx context.Context, seasonID int) ([]models.LeaderboardEntry, error) {
	season, tournaments, err := s.loadSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	// Списки участников завершённых турниров загружаются параллельно:
	// это чтение для отображения, блокировки не нужны.
	byTournament := make([][]*models.TournamentPlayer, len(tournaments))
	g, gCtx := errgroup.WithContext(ctx)
	for i := range tournaments {
		g.Go(func() error {
			players, err := s.tournamentPlayer.ListByTournament(gCtx, nil, tournaments[i].ID)
			if err != nil {
				return fmt.Errorf("failed to list players of tournament %d: %w", tournaments[i].ID, err)
			}
			byTournament[i] = players
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	performances := make(map[int][]models.PlayerPerformance)
	playerOrder := make([]int, 0)
	for i, players := range byTournament {
		for _, tp := range players {
			// Игрок без итогового места результата не имеет и в зачёт
			// не попадает.
			if tp.FinalRank == nil {
				continue
			}
			b := scoring.PlayerBreakdown(tp, season)
			if _, seen := performances[tp.PlayerID]; !seen {
				playerOrder = append(playerOrder, tp.PlayerID)
			}
			rank := *tp.FinalRank
			performances[tp.PlayerID] = append(performances[tp.PlayerID], models.PlayerPerformance{
				TournamentID: tournaments[i].ID,
				TotalPoints:  b.TotalPoints,
				FinalRank:    &rank,
			})
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(performances))
	for _, playerID := range playerOrder {
		perfs := performances[playerID]
		sort.SliceStable(perfs, func(a, b int) bool {
			return perfs[a].TotalPoints > perfs[b].TotalPoints
		})

		kept := len(perfs)
		if season.BestTournamentsCount != nil && *season.BestTournamentsCount < kept {
			kept = *season.BestTournamentsCount
		}

		entry := models.LeaderboardEntry{
			PlayerID:         playerID,
			TournamentsCount: kept,
		}
		for i := range perfs {
			if i < kept {
				perfs[i].CountedInSum = true
				entry.TotalPoints += perfs[i].TotalPoints
			}
			if perfs[i].FinalRank != nil {
				if *perfs[i].FinalRank == 1 {
					entry.Victories++
				}
				if *perfs[i].FinalRank <= 3 {
					entry.Podiums++
				}
			}
		}
		if kept > 0 {
			entry.AveragePoints = int(math.Round(float64(entry.TotalPoints) / float64(kept)))
		}
		entry.Performances = perfs
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].TotalPoints > entries[b].TotalPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.populatePlayers(ctx, entries)
	return entries, nil
}

func (s *leaderboardService) loadSeason(ctx context.Context, seasonID int) (*models.Season, []models.Tournament, error) {
	season, err := s.seasonRepo.GetByID(ctx, nil, seasonID)
	if err != nil {
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			return nil, nil, ErrSeasonNotFound
		}
		return nil, nil, err
	}

	finished := models.StatusFinished
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		SeasonID: &seasonID,
		Status:   &finished,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list finished tournaments of season %d: %w", seasonID, err)
	}
	return season, tournaments, nil
}

// populatePlayers подтягивает профили игроков; ошибка не фатальна для зачёта.
func (s *leaderboardService) populatePlayers(ctx context.Context, entries []models.LeaderboardEntry) {
	ids := make([]int, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].PlayerID)
	}
	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to populate leaderboard players", slog.Any("error", err))
		return
	}
	for i := range entries {
		if p, ok := players[entries[i].PlayerID]; ok {
			p.PasswordHash = ""
			entries[i].Player = p
		}
	}
}
