package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/service"
)

// Handler serves the storefront API. Every call is bound to the tab
// resolved by TabIdentity.
type Handler struct {
	storefront *service.Storefront
	ctxMgr     model.ContextManager
	clock      model.Clock
	logger     *logger.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func NewHandler(
	storefront *service.Storefront,
	ctxMgr model.ContextManager,
	clock model.Clock,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		storefront: storefront,
		ctxMgr:     ctxMgr,
		clock:      clock,
		logger:     logger,
		closed:     make(chan struct{}),
	}
}

// Close ends open debug streams.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.closed) })
}

var errNoTab = errors.New("request has no tab")

// tab builds the components of the request's tab around a cookie jar
// and navigator bound to w.
func (h *Handler) tab(w http.ResponseWriter, r *http.Request) (*service.Tab, *Navigator, error) {
	tabID, ok := h.ctxMgr.GetTabIDFromContext(r.Context())
	if !ok {
		return nil, nil, errNoTab
	}
	nav := &Navigator{}
	jar := NewCookieJar(w, r, h.clock.Now)
	return h.storefront.Tab(tabID, jar, nav), nav, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}
	writeError(w, err)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

type productsResponse struct {
	Products []model.Product `json:"products"`
}

// ListProducts returns the catalog, filtered and logged as a search when q is given.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("q") {
		writeJSON(w, http.StatusOK, productsResponse{Products: h.storefront.Catalog().All()})
		return
	}

	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	products, err := tab.Shop.Search(r.Context(), query.Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

type productResponse struct {
	Product model.Product `json:"product"`
	Size    string        `json:"size"`
}

func (h *Handler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	product, size, err := tab.Shop.ViewProduct(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("size"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Product: product, Size: size})
}

type visitRequest struct {
	Page string `json:"page"`
}

type visitResponse struct {
	Consent model.ConsentChoice `json:"consent"`
}

// RecordVisit logs a page load: view, consent banner and automatic pixel.
func (h *Handler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := tab.Shop.LoadPage(r.Context(), req.Page); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visitResponse{Consent: tab.Consent.Current(r.Context())})
}

type consentRequest struct {
	Choice string `json:"choice"`
}

type consentResponse struct {
	Choice  model.ConsentChoice `json:"choice"`
	Created []string            `json:"created,omitempty"`
}

func (h *Handler) GetConsent(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consentResponse{Choice: tab.Consent.Current(r.Context())})
}

func (h *Handler) ApplyConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	choice, err := model.ParseConsentChoice(req.Choice)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := tab.Consent.Apply(r.Context(), choice)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consentResponse{Choice: choice, Created: created})
}

type pixelRequest struct {
	Page   string `json:"page"`
	Reason string `json:"reason"`
}

func (h *Handler) FirePixel(w http.ResponseWriter, r *http.Request) {
	var req pixelRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Reason == "" {
		req.Reason = service.PixelManual
	}
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payload, err := tab.Shop.FirePixel(r.Context(), req.Page, req.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type checkoutRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
}

type checkoutResponse struct {
	Outcome  service.CheckoutOutcome `json:"outcome"`
	Redirect string                  `json:"redirect,omitempty"`
}

// Checkout starts a purchase. Without a session the response outcome is
// login_required and the client is expected to show the login modal.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tab, nav, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	outcome, err := tab.Buy(r.Context(), req.ProductID, req.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{Outcome: outcome, Redirect: nav.Target()})
}

type sessionResponse struct {
	Active          bool                   `json:"active"`
	Session         *model.Session         `json:"session,omitempty"`
	PendingCheckout *model.PendingCheckout `json:"pendingCheckout,omitempty"`
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp sessionResponse
	if session, ok := tab.Sessions.Active(r.Context()); ok {
		resp.Active = true
		resp.Session = &session
	}
	if pending, ok := tab.Checkout.Pending(r.Context()); ok {
		resp.PendingCheckout = &pending
	}
	writeJSON(w, http.StatusOK, resp)
}

type showAuthRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) ShowAuth(w http.ResponseWriter, r *http.Request) {
	var req showAuthRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := tab.Auth.Show(r.Context(), service.AuthMode(req.Mode)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HideAuth(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := tab.Auth.Hide(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelAuth(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := tab.Auth.Cancel(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type authRequest struct {
	Mode       string `json:"mode"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	UserID     string `json:"userId"`
	Identifier string `json:"identifier"`
	Resumed    bool   `json:"resumed"`
	Redirect   string `json:"redirect,omitempty"`
}

func (h *Handler) SubmitAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tab, nav, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := tab.Auth.Submit(r.Context(), service.AuthMode(req.Mode), req.Identifier, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		UserID:     res.Account.ID.String(),
		Identifier: res.Session.Identifier,
		Resumed:    res.Resumed,
		Redirect:   nav.Target(),
	})
}

type paymentRequest struct {
	ID   string `json:"id"`
	Size string `json:"size"`
}

type paymentResponse struct {
	service.PaymentSummary
	Redirect string `json:"redirect,omitempty"`
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	tab, _, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	query := r.URL.Query()
	summary, err := tab.Shop.PaymentSummary(r.Context(), query.Get("id"), query.Get("size"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{PaymentSummary: summary})
}

// SubmitPayment simulates the payment. Nothing is charged.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	tab, nav, err := h.tab(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	summary, err := tab.Shop.SubmitPayment(r.Context(), req.ID, req.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paymentResponse{PaymentSummary: summary, Redirect: nav.Target()})
}
