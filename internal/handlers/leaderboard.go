package handlers

import (
	"context"

	"github.com/gampahin-husmak/community-api/internal/leaderboard"
)

type LeaderboardHandler struct {
	ranker *leaderboard.Ranker
}

func NewLeaderboardHandler(ranker *leaderboard.Ranker) *LeaderboardHandler {
	return &LeaderboardHandler{ranker: ranker}
}

type LeaderboardRequest struct {
	PageInput
}

type LeaderboardResponse struct {
	Body leaderboard.Board
}

func (h *LeaderboardHandler) HandleLeaderboard(ctx context.Context, input *LeaderboardRequest) (*LeaderboardResponse, error) {
	page, limit := input.PageLimit()
	board, err := h.ranker.GetLeaderboard(ctx, page, limit)
	if err != nil {
		return nil, storeUnavailable(err)
	}

	return &LeaderboardResponse{Body: *board}, nil
}
