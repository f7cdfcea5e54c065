package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		turnsTotal,
		webhookUnauthorized,
		notificationsPushed,
		notificationsFailed,
		conversationsSwept,
	)
}

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turns_total",
			Help: "Handled inbound messages by outcome (ok|rejected|error).",
		},
		[]string{"outcome"},
	)

	webhookUnauthorized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_unauthorized_total",
			Help: "Webhook calls rejected for a bad shared secret.",
		},
	)

	notificationsPushed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_pushed_total",
			Help: "Notifications successfully delivered to the chat transport.",
		},
	)

	notificationsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Notification deliveries that failed (not retried).",
		},
	)

	conversationsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_swept_total",
			Help: "Idle conversations removed by the sweeper.",
		},
	)
)

func IncTurn(outcome string)           { turnsTotal.WithLabelValues(outcome).Inc() }
func IncWebhookUnauthorized()          { webhookUnauthorized.Inc() }
func IncNotificationsPushed(n int)     { notificationsPushed.Add(float64(n)) }
func IncNotificationsFailed(n int)     { notificationsFailed.Add(float64(n)) }
func IncConversationsSwept(n int)      { conversationsSwept.Add(float64(n)) }
