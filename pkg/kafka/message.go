package kafka

import (
	"encoding/json"
	"time"
)

// IncomingMessage wraps a raw Kafka message with its parsed headers and,
// once ParseCompanyNameEvent succeeds, the decoded event.
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	Event *CompanyNameEvent
}

// CompanyNameEvent is a single newly-seen company name arriving on the
// ingestion topic.
type CompanyNameEvent struct {
	CompanyName string `json:"company_name"`
	SourceID    string `json:"source_id,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// ParseCompanyNameEvent decodes the message value as a CompanyNameEvent.
func (m *IncomingMessage) ParseCompanyNameEvent() error {
	var evt CompanyNameEvent
	if err := json.Unmarshal(m.Value, &evt); err != nil {
		return err
	}
	m.Event = &evt
	return nil
}

// DuplicateEvent is published when an incoming company name matches a name
// already seen on the running catalog.
type DuplicateEvent struct {
	Name1     string    `json:"name_1"`
	Name2     string    `json:"name_2"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}
