package handlers

import (
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/order"
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	AckSuccess = "responsecode=1&desc=confirm-success"
	AckFail    = "responsecode=0&desc=confirm-fail"
)

type Reconciler interface {
	Reconcile(ctx context.Context, n callback.Notification) callback.Outcome
}

type CallbackHandler struct {
	reconciler Reconciler
	successURL string
	failedURL  string
}

// NewCallbackHandler takes the absolute success and failure page URLs the
// customer's browser is sent to after the gateway.
func NewCallbackHandler(r Reconciler, successURL, failedURL string) CallbackHandler {
	return CallbackHandler{reconciler: r, successURL: successURL, failedURL: failedURL}
}

// firstValues keeps the first value of every key.
func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Return handles the customer's browser coming back from the hosted page.
func (h *CallbackHandler) Return(c *gin.Context) {
	out := h.reconciler.Reconcile(c.Request.Context(), callback.Notification{
		Params: firstValues(c.Request.URL.Query()),
		Source: order.CallbackSourceReturn,
	})

	if out.Acknowledged {
		c.Redirect(http.StatusFound, withQuery(h.successURL, url.Values{"orderId": {out.OrderID}}))
		return
	}

	q := url.Values{"reason": {string(out.Reason)}}
	if out.ResponseCode != "" {
		q.Set("code", out.ResponseCode)
	}
	c.Redirect(http.StatusFound, withQuery(h.failedURL, q))
}

// Notify handles the gateway's server-to-server notification. The answer is
// always 200; the body tells the gateway whether to retry.
func (h *CallbackHandler) Notify(c *gin.Context) {
	params := firstValues(c.Request.URL.Query())
	if c.Request.Method == http.MethodPost {
		if err := c.Request.ParseForm(); err == nil {
			for k, v := range firstValues(c.Request.PostForm) {
				params[k] = v
			}
		}
	}

	out := h.reconciler.Reconcile(c.Request.Context(), callback.Notification{
		Params: params,
		Source: order.CallbackSourceIPN,
	})

	body := AckFail
	if out.Acknowledged {
		body = AckSuccess
	}
	c.String(http.StatusOK, body)
}

func withQuery(base string, q url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + q.Encode()
	}
	existing := u.Query()
	for k, v := range q {
		existing[k] = v
	}
	u.RawQuery = existing.Encode()
	return u.String()
}
