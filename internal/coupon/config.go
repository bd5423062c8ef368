package coupon

// Config carries the endpoints main resolves from env for the coupon service.
type Config struct {
	PaperServiceAddr string
	KafkaBrokers     []string
}
