package payment

// Config carries the service endpoints and secrets main resolves from env.
// OrderSecret signs client-side checkout confirmations; WebhookSecret
// authenticates webhook bodies. The two are distinct values and must never be
// interchanged.
type Config struct {
	PaperServiceAddr string
	GatewayBaseURL   string
	GatewayKeyID     string
	GatewayKeySecret string
	OrderSecret      string
	WebhookSecret    string
}
