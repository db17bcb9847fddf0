package rpc

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"repledger/core"
	"repledger/observability/metrics"
)

// Server exposes the ledger's query and transaction surface over HTTP.
// Caller identity arrives as a request field; authenticating it is the
// deployment's concern, not the core's.
type Server struct {
	node    *core.Node
	log     *slog.Logger
	metrics *metrics.LedgerMetrics
}

// NewServer constructs a server bound to the node.
func NewServer(node *core.Node, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{node: node, log: log, metrics: metrics.Ledger()}
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(200), 400)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/token/metadata", s.handleMetadata)
		v1.Get("/token/supply", s.handleSupply)
		v1.Get("/token/supply/check", s.handleSupplyCheck)
		v1.Get("/accounts/{address}/balance", s.handleBalance)
		v1.Get("/accounts/{address}/balance/decayed", s.handleDecayedBalance)
		v1.Get("/auditors/count", s.handleAuditorCount)
		v1.Get("/auditors/{address}", s.handleAuditorMembership)
		v1.Get("/auditors/{address}/stats", s.handleAuditorStats)
		v1.Get("/audits/{id}/{auditor}", s.handleAuditRecord)
		v1.Get("/stakes/{address}", s.handleStakingPosition)
		v1.Get("/stakes/{address}/rewards", s.handleStakeRewards)
		v1.Get("/decay/last", s.handleLastDecay)
		v1.Get("/events", s.handleEvents)

		v1.Post("/height", s.handleSetHeight)
		v1.Post("/tx/transfer", s.handleTransfer)
		v1.Post("/tx/burn", s.handleBurn)
		v1.Post("/tx/auditors/verify", s.handleVerifyAuditor)
		v1.Post("/tx/auditors/remove", s.handleRemoveAuditor)
		v1.Post("/tx/auditors/audit", s.handleAuditAuditor)
		v1.Post("/tx/audits", s.handleSubmitAudit)
		v1.Post("/tx/stake", s.handleStake)
		v1.Post("/tx/unstake", s.handleUnstake)
		v1.Post("/tx/decay/trigger", s.handleTriggerDecay)
	})

	return r
}

// --- Queries ---

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := s.node.TokenMetadata()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := s.node.TotalSupply()
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.SetTotalSupply(float64(supply))
	writeJSON(w, http.StatusOK, map[string]uint64{"totalSupply": supply})
}

func (s *Server) handleSupplyCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.node.CheckMaxSupply(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"withinCap": true})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	balance, err := s.node.BalanceOf(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"balance": balance})
}

func (s *Server) handleDecayedBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	balance, err := s.node.DecayedBalanceOf(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"decayedBalance": balance})
}

func (s *Server) handleAuditorCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.node.AuditorCount()
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.SetAuditorCount(float64(count))
	writeJSON(w, http.StatusOK, map[string]uint64{"count": count})
}

func (s *Server) handleAuditorMembership(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	verified, err := s.node.IsAuditor(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}

func (s *Server) handleAuditorStats(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	stats, err := s.node.AuditorStats(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAuditRecord(w http.ResponseWriter, r *http.Request) {
	auditID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid audit id"})
		return
	}
	auditor, err := parseAddress(chi.URLParam(r, "auditor"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	record, err := s.node.AuditRecord(auditID, auditor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleStakingPosition(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	position, active, err := s.node.StakingPosition(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	if !active {
		writeJSON(w, http.StatusOK, map[string]bool{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active":       true,
		"amount":       position.Amount,
		"unlockHeight": position.UnlockHeight,
	})
}

func (s *Server) handleStakeRewards(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reward, err := s.node.StakeRewards(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"reward": reward})
}

func (s *Server) handleLastDecay(w http.ResponseWriter, r *http.Request) {
	height, err := s.node.LastDecayHeight()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"lastDecayHeight": height})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.node.RecentEvents())
}

// --- Transactions ---

func (s *Server) handleSetHeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Height uint64 `json:"height"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.node.SetHeight(req.Height)
	writeJSON(w, http.StatusOK, map[string]uint64{"height": s.node.Height()})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		From   string `json:"from"`
		To     string `json:"to"`
		Amount uint64 `json:"amount"`
		Memo   string `json:"memo"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	from, err := parseAddress(req.From)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	to, err := parseAddress(req.To)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.node.Transfer(caller, from, to, req.Amount, req.Memo); err != nil {
		s.metrics.IncRejected("transfer")
		writeError(w, err)
		return
	}
	s.metrics.ObserveTransfer()
	s.log.Info("transfer accepted", "from", req.From, "to", req.To, "amount", req.Amount)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
		Owner  string `json:"owner"`
		Amount uint64 `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	owner, err := parseAddress(req.Owner)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.node.Burn(caller, owner, req.Amount); err != nil {
		s.metrics.IncRejected("burn")
		writeError(w, err)
		return
	}
	s.metrics.ObserveBurn()
	s.log.Info("burn accepted", "owner", req.Owner, "amount", req.Amount)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleVerifyAuditor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller    string `json:"caller"`
		Candidate string `json:"candidate"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	candidate, err := parseAddress(req.Candidate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.node.VerifyAuditor(caller, candidate); err != nil {
		s.metrics.IncRejected("verify_auditor")
		writeError(w, err)
		return
	}
	s.log.Info("auditor verified", "auditor", req.Candidate)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRemoveAuditor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller  string `json:"caller"`
		Auditor string `json:"auditor"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	auditor, err := parseAddress(req.Auditor)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.node.RemoveAuditor(caller, auditor); err != nil {
		s.metrics.IncRejected("remove_auditor")
		writeError(w, err)
		return
	}
	s.log.Info("auditor removed", "auditor", req.Auditor)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleAuditAuditor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	target, err := parseAddress(req.Target)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.node.AuditAuditor(target); err != nil {
		s.metrics.IncRejected("audit_auditor")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSubmitAudit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller       string `json:"caller"`
		AuditID      uint64 `json:"auditId"`
		Completeness uint64 `json:"completeness"`
		Accuracy     uint64 `json:"accuracy"`
		Timeliness   uint64 `json:"timeliness"`
		AuditData    string `json:"auditData"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	score, err := s.node.SubmitAuditReport(caller, req.AuditID, req.Completeness, req.Accuracy, req.Timeliness, req.AuditData)
	if err != nil {
		s.metrics.IncRejected("submit_audit")
		writeError(w, err)
		return
	}
	s.metrics.ObserveAuditAccepted()
	s.log.Info("audit accepted", "auditor", req.Caller, "auditId", req.AuditID, "score", score)
	writeJSON(w, http.StatusOK, map[string]uint64{"score": score})
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller     string `json:"caller"`
		Amount     uint64 `json:"amount"`
		LockPeriod uint64 `json:"lockPeriod"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.node.StakeTokens(caller, req.Amount, req.LockPeriod); err != nil {
		s.metrics.IncRejected("stake")
		writeError(w, err)
		return
	}
	s.metrics.ObserveStakeOpened()
	s.log.Info("stake opened", "staker", req.Caller, "amount", req.Amount)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caller string `json:"caller"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caller, err := parseAddress(req.Caller)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	amount, err := s.node.UnstakeTokens(caller)
	if err != nil {
		s.metrics.IncRejected("unstake")
		writeError(w, err)
		return
	}
	s.metrics.ObserveStakeReleased()
	s.log.Info("stake released", "staker", req.Caller, "amount", amount)
	writeJSON(w, http.StatusOK, map[string]uint64{"amount": amount})
}

func (s *Server) handleTriggerDecay(w http.ResponseWriter, r *http.Request) {
	if err := s.node.TriggerDecay(); err != nil {
		s.metrics.IncRejected("trigger_decay")
		writeError(w, err)
		return
	}
	s.metrics.ObserveDecayTrigger()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
