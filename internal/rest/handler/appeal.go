package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/marketloop/supportd/internal/database"
	"github.com/marketloop/supportd/internal/database/types/enum"
	"github.com/marketloop/supportd/internal/lifecycle"
	"github.com/marketloop/supportd/internal/rest/convert"
	restTypes "github.com/marketloop/supportd/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// AppealHandler handles deleted-ad and appeal REST endpoints.
type AppealHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewAppealHandler creates a new appeal handler.
func NewAppealHandler(db database.Client, logger *zap.Logger) *AppealHandler {
	return &AppealHandler{
		db:     db,
		logger: logger,
	}
}

// ListDeletedAds lists the removed ads of the user given by the userId
// query parameter, newest first.
func (h *AppealHandler) ListDeletedAds(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := strconv.ParseUint(req.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		return badRequest(w, "userId query parameter is required")
	}

	ads, err := h.db.Service().Appeal().GetDeletedAdsByUser(req.Context(), userID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.DeletedAds(ads, time.Now()))
}

// GetDeletedAd retrieves a single removed ad by ID.
func (h *AppealHandler) GetDeletedAd(w http.ResponseWriter, req bunrouter.Request) error {
	adID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ad id")
	}

	ad, err := h.db.Service().Appeal().GetDeletedAd(req.Context(), adID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.DeletedAd(ad, time.Now()))
}

// CanAppeal reports whether a removed ad is still appealable and how many
// whole days remain before its deadline.
func (h *AppealHandler) CanAppeal(w http.ResponseWriter, req bunrouter.Request) error {
	adID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ad id")
	}

	ad, err := h.db.Service().Appeal().GetDeletedAd(req.Context(), adID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	now := time.Now()
	countdown := lifecycle.Remaining(now, ad.AppealDeadline)

	return bunrouter.JSON(w, restTypes.CanAppealResponse{
		CanAppeal: lifecycle.CanAppeal(ad, now),
		Expired:   countdown.Expired,
		DaysLeft:  countdown.Days,
	})
}

// SubmitAppeal files an appeal against a removed ad.
func (h *AppealHandler) SubmitAppeal(w http.ResponseWriter, req bunrouter.Request) error {
	adID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid ad id")
	}

	var body restTypes.SubmitAppealRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}

	appeal, err := h.db.Service().Appeal().SubmitAppeal(
		req.Context(), adID, body.Reason, body.Explanation, body.Evidence,
	)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	w.WriteHeader(http.StatusCreated)

	return bunrouter.JSON(w, convert.Appeal(appeal))
}

// ListAppeals lists the appeals of the user given by the userId query
// parameter, newest first.
func (h *AppealHandler) ListAppeals(w http.ResponseWriter, req bunrouter.Request) error {
	userID, err := strconv.ParseUint(req.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		return badRequest(w, "userId query parameter is required")
	}

	appeals, err := h.db.Service().Appeal().GetAppealsByUser(req.Context(), userID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Appeals(appeals))
}

// GetAppeal retrieves a single appeal by ID.
func (h *AppealHandler) GetAppeal(w http.ResponseWriter, req bunrouter.Request) error {
	appealID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid appeal id")
	}

	appeal, err := h.db.Service().Appeal().GetAppeal(req.Context(), appealID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Appeal(appeal))
}

// UpdateStatus moves an appeal through review. under_review claims the
// appeal for review; approved and rejected record the final decision.
func (h *AppealHandler) UpdateStatus(w http.ResponseWriter, req bunrouter.Request) error {
	appealID, err := strconv.ParseInt(req.Param("id"), 10, 64)
	if err != nil {
		return badRequest(w, "invalid appeal id")
	}

	var body restTypes.UpdateAppealStatusRequest
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(w, "invalid request body")
	}

	status, err := enum.ParseAppealStatus(body.Status)
	if err != nil {
		return badRequest(w, "unknown status: "+body.Status)
	}

	appealService := h.db.Service().Appeal()

	switch status {
	case enum.AppealStatusUnderReview:
		err = appealService.StartReview(req.Context(), appealID)
	case enum.AppealStatusApproved, enum.AppealStatusRejected:
		err = appealService.Decide(req.Context(), appealID, status, body.AdminResponse)
	default:
		return badRequest(w, "status must be under_review, approved or rejected")
	}

	if err != nil {
		return writeError(w, err, h.logger)
	}

	appeal, err := appealService.GetAppeal(req.Context(), appealID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, convert.Appeal(appeal))
}

// GetStats returns deleted-ad and appeal counts for the user given by the
// userId query parameter, or across all users when it is absent.
func (h *AppealHandler) GetStats(w http.ResponseWriter, req bunrouter.Request) error {
	var userID uint64

	if raw := req.URL.Query().Get("userId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(w, "invalid userId query parameter")
		}

		userID = parsed
	}

	stats, err := h.db.Service().Stats().GetSupportStats(req.Context(), userID)
	if err != nil {
		return writeError(w, err, h.logger)
	}

	return bunrouter.JSON(w, stats.Appeals)
}
