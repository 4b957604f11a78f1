// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollchain/auth"
	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/middleware"
	"github.com/danielhkuo/pollchain/models"
)

type ResultsHandler struct {
	d   *dispatch.Dispatcher
	cfg cliparse.Config
}

func NewResultsHandler(d *dispatch.Dispatcher, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{d: d, cfg: cfg}
}

// GetResults handles GET /apps/{app}/results
// Results are public while the poll runs.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("app")

	state, now, err := h.d.State(r.Context(), appID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, Summarize(appID, state, now))
}

// Summarize builds the dashboard view of state at time now.
func Summarize(appID string, state *contract.PollState, now uint64) models.ResultsResponse {
	resp := models.ResultsResponse{
		AppID:   appID,
		Options: []models.OptionResult{},
		Leaders: []int{},
	}

	p := state.Poll
	if p == nil {
		return resp
	}

	resp.HasPoll = true
	resp.Question = string(p.Question)
	resp.TotalVotes = p.TotalVotes
	resp.Active = p.Active
	resp.Open = p.Open(now)
	resp.Creator = string(p.Creator)
	resp.TokenID = p.TokenID
	resp.EndTime = p.EndTime
	resp.RemainingSeconds = state.GetRemainingTime(now)
	resp.Ends = humanize.RelTime(time.Unix(int64(p.EndTime), 0), time.Unix(int64(now), 0), "ago", "from now")

	var best uint64
	for i, label := range p.Options {
		votes := p.Tally[i]
		resp.Options = append(resp.Options, models.OptionResult{
			Index:   i + 1,
			Label:   string(label),
			Votes:   votes,
			Percent: percent(votes, p.TotalVotes),
		})
		best = max(best, votes)
	}

	if best > 0 {
		for _, opt := range resp.Options {
			if opt.Votes == best {
				resp.Leaders = append(resp.Leaders, opt.Index)
			}
		}
	}

	return resp
}

// percent returns votes/total as a percentage rounded to one decimal
func percent(votes, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)*1000/float64(total)) / 10
}

// GetAudit handles GET /apps/{app}/audit
// Lists committed votes, newest first, with voters anonymized.
func (h *ResultsHandler) GetAudit(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("app")

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	receipts, err := h.d.Receipts(r.Context(), appID, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	votes := []models.AuditVote{}
	for _, rc := range receipts {
		if rc.Method != contract.MethodVote {
			continue
		}
		if limit > 0 && len(votes) >= limit {
			break
		}

		index, err := strconv.ParseUint(rc.Args["option_index"], 10, 64)
		if err != nil {
			slog.Warn("vote receipt without option index", "app_id", appID, "tx_id", rc.TxID)
			continue
		}
		votes = append(votes, models.AuditVote{
			Round:       rc.Round,
			TxID:        rc.TxID,
			Voter:       auth.Anonymize(rc.Sender),
			OptionIndex: index,
			Timestamp:   rc.Timestamp,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuditResponse{
		AppID: appID,
		Votes: votes,
		Count: len(votes),
	})
}
