// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/pkg/web"
)

// Fixed messages of the 404 responses, sent as plain text bodies.
const (
	MsgRetrieveNotFound = "The account you are trying to retrieve doesn't exist in the db"
	MsgUpdateNotFound   = "The account you are trying to update doesn't exist in the db"
	MsgDeleteNotFound   = "The account you are trying to delete doesn't exist in the db"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, externalUserID string) (domain.Account, error)
	List(ctx context.Context, externalUserID string) ([]domain.Account, error)
	Get(ctx context.Context, externalUserID, id string) (domain.Account, error)
	UpdateStatus(ctx context.Context, externalUserID, id, status string) (domain.Account, error)
	Delete(ctx context.Context, externalUserID, id string) error
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type userPath struct {
	ExternalUserID string `uri:"externalUserId" binding:"required"`
}

type accountPath struct {
	ExternalUserID string `uri:"externalUserId" binding:"required"`
	ID             string `uri:"id" binding:"required"`
}

type updateRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended" enums:"active,suspended"`
}

// plainText answers with msg as the whole body.
func plainText(gctx *gin.Context, code int, msg string) {
	gctx.Data(code, "text/plain; charset=utf-8", []byte(msg))
}

// internalError answers 500 with the error message.
func internalError(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Str("path", gctx.Request.URL.Path).Send()

	_ = gctx.Error(err)
	gctx.JSON(http.StatusInternalServerError, web.Error(err))
}

// List handles http request to list accounts of an external user.
//
//	@Summary	Find all accounts
//	@Tags		Accounts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		externalUserId	path		string	true	"id of external user"
//	@Success	200				{array}		domain.Account
//	@Failure	401				{object}	web.Response
//	@Failure	500				{object}	web.Response
//	@Router		/external-users/{externalUserId}/accounts/ [get]
func (h *Handler) List(gctx *gin.Context) {
	var req userPath
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	accounts, err := h.service.List(gctx.Request.Context(), req.ExternalUserID)
	if err != nil {
		internalError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, accounts)
}

// Get handles http request to get account.
//
//	@Summary	Find account by id
//	@Tags		Accounts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		externalUserId	path		string	true	"id of external user"
//	@Param		id				path		string	true	"id of account"
//	@Success	200				{object}	domain.Account
//	@Failure	401				{object}	web.Response
//	@Failure	404				{string}	string
//	@Router		/external-users/{externalUserId}/accounts/{id}/ [get]
func (h *Handler) Get(gctx *gin.Context) {
	var req accountPath
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	account, err := h.service.Get(gctx.Request.Context(), req.ExternalUserID, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			plainText(gctx, http.StatusNotFound, MsgRetrieveNotFound)
			return
		}

		internalError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, account)
}

// Create handles http request to create account.
//
// A rejected account is answered with the list of its field violations.
//
//	@Summary	Create an account
//	@Tags		Accounts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		externalUserId	path		string	true	"id of external user"
//	@Success	201				{object}	domain.Account
//	@Failure	400				{array}		domain.FieldViolation
//	@Failure	401				{object}	web.Response
//	@Failure	409				{object}	web.Response
//	@Router		/external-users/{externalUserId}/accounts/ [post]
func (h *Handler) Create(gctx *gin.Context) {
	var req userPath
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	account, err := h.service.Create(gctx.Request.Context(), req.ExternalUserID)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, ve.Violations)

			return
		}

		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		internalError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, account)
}

// Update handles http request to change account status.
//
//	@Summary	Update an account
//	@Tags		Accounts
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		externalUserId	path		string			true	"id of external user"
//	@Param		id				path		string			true	"id of account"
//	@Param		account			body		updateRequest	true	"new status"
//	@Success	200				{object}	domain.Account
//	@Failure	400				{string}	string
//	@Failure	401				{object}	web.Response
//	@Failure	404				{string}	string
//	@Router		/external-users/{externalUserId}/accounts/{id}/ [patch]
func (h *Handler) Update(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var path accountPath
	if err := gctx.ShouldBindUri(&path); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		plainText(gctx, http.StatusBadRequest, domain.ErrInvalidUpdateStatus.Error())

		return
	}

	account, err := h.service.UpdateStatus(gctx.Request.Context(), path.ExternalUserID, path.ID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUpdateStatus):
			plainText(gctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrAccountNotFound):
			plainText(gctx, http.StatusNotFound, MsgUpdateNotFound)
		default:
			internalError(gctx, err)
		}

		return
	}

	gctx.JSON(http.StatusOK, account)
}

// Delete handles http request to delete account.
//
//	@Summary	Delete account by id
//	@Tags		Accounts
//	@Produce	json
//	@Security	BearerAuth
//	@Param		externalUserId	path	string	true	"id of external user"
//	@Param		id				path	string	true	"id of account"
//	@Success	204
//	@Failure	401	{object}	web.Response
//	@Failure	404	{string}	string
//	@Router		/external-users/{externalUserId}/accounts/{id}/ [delete]
func (h *Handler) Delete(gctx *gin.Context) {
	var req accountPath
	if err := gctx.ShouldBindUri(&req); err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	err := h.service.Delete(gctx.Request.Context(), req.ExternalUserID, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			plainText(gctx, http.StatusNotFound, MsgDeleteNotFound)
			return
		}

		internalError(gctx, err)

		return
	}

	gctx.Status(http.StatusNoContent)
}
