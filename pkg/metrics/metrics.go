package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the authentication path. The request authenticator and the
// denylist report outcomes here instead of logging token material.
var (
	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neurixa_auth_login_failures_total",
		Help: "Login attempts rejected for bad credentials or a locked account.",
	})

	TokenRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neurixa_auth_token_rejections_total",
		Help: "Bearer tokens rejected during request authentication.",
	})

	RevokedTokenHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neurixa_auth_revoked_token_hits_total",
		Help: "Requests carrying a denylisted token.",
	})

	DenylistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neurixa_auth_denylist_errors_total",
		Help: "Denylist store lookups that failed and fell back to the configured outage policy.",
	})

	AccountLockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neurixa_auth_account_lockouts_total",
		Help: "Accounts locked after exceeding the failed-login threshold.",
	})
)
