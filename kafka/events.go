package kafka

import "time"

// CouponIssuedEvent is published for each coupon generated when a paper is
// published. The email worker consumes it; delivery problems never reach the
// publish flow.
type CouponIssuedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	CouponID     uint      `json:"coupon_id"`
	Code         string    `json:"code"`
	PaperID      uint      `json:"paper_id"`
	PaperTitle   string    `json:"paper_title"`
	StudentID    uint      `json:"student_id"`
	StudentEmail string    `json:"student_email"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCouponIssued = "coupon.issued"
)

// Kafka topics
const (
	TopicCouponIssued = "coupon-issued"
)
