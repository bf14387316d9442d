package service

import (
	"cmp"
	"slices"

	"github.com/atinyakov/dishrank/internal/models"
)

// Rankings projects the catalog into a leaderboard.
//
// Every dish appears, with the sum of rank points from all users (0 when
// unvoted) and, when signedIn, the rank userID gave it. Dishes are ordered by
// points descending; equal scores keep their catalog order.
func Rankings(dishes []models.Dish, votes []models.Vote, userID string, signedIn bool) []models.RankedDish {
	points := make(map[int]int, len(dishes))
	mine := make(map[int]models.Rank)
	for _, v := range votes {
		points[v.DishID] += v.Rank.Points()
		if signedIn && v.UserID == userID {
			mine[v.DishID] = v.Rank
		}
	}

	out := make([]models.RankedDish, 0, len(dishes))
	for _, d := range dishes {
		rd := models.RankedDish{Dish: d, Points: points[d.ID]}
		if r, ok := mine[d.ID]; ok {
			rd.UserRank = &r
		}
		out = append(out, rd)
	}

	slices.SortStableFunc(out, func(a, b models.RankedDish) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return out
}

// DishSource supplies the working catalog.
type DishSource interface {
	Dishes() []models.Dish
}

// VoteSource supplies the full ledger.
type VoteSource interface {
	Votes() []models.Vote
}

// RankingService computes the leaderboard on demand for the current viewer.
type RankingService struct {
	dishes   DishSource
	votes    VoteSource
	identity Identity
}

// NewRankingService wires the catalog, ledger and identity together.
func NewRankingService(dishes DishSource, votes VoteSource, identity Identity) *RankingService {
	return &RankingService{dishes: dishes, votes: votes, identity: identity}
}

// GetRankings returns the current leaderboard. It has no side effects.
func (s *RankingService) GetRankings() []models.RankedDish {
	user, ok := s.identity.CurrentUser()
	return Rankings(s.dishes.Dishes(), s.votes.Votes(), user, ok)
}
