package model

import "time"

// LogKey is the tab store key of the event log.
const LogKey = "nl_logs"

// Event types written to the tab event log.
const (
	EventPageView          = "page_view"
	EventCookieBannerShown = "cookie_banner_shown"
	EventConsentRefused    = "consent_refused"
	EventConsentNecessary  = "consent_necessary"
	EventConsentAll        = "consent_all"
	EventPixelFired        = "pixel_fired"
	EventSearch            = "search"
	EventProductView       = "product_view"
	EventCheckoutBlocked   = "checkout_blocked_not_logged_in"
	EventCheckoutStart     = "checkout_start"
	EventLoginModalShown   = "login_modal_shown"
	EventLoginModalHidden  = "login_modal_hidden"
	EventAuthFailed        = "auth_failed"
	EventSignupSuccess     = "signup_success"
	EventSignupFailed      = "signup_failed"
	EventLoginSuccess      = "login_success"
	EventLoginFailed       = "login_failed"
	EventPaymentPageLoaded = "payment_page_loaded"
	EventPaymentSubmit     = "payment_submit_demo"
	EventDebugRefresh      = "debug_refresh_clicked"
	EventResetDone         = "reset_done"
)

// LogEntry is a single recorded domain event.
type LogEntry struct {
	Time time.Time      `json:"time"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}
