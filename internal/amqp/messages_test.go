package amqp

import (
	"testing"
)

func TestDatasetIngestedMessageJSON(t *testing.T) {
	msg := NewDatasetIngestedMessage(7, "q1_sales", 120, 3)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := DatasetIngestedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.DatasetID != 7 || got.Name != "q1_sales" || got.RowCount != 120 || got.RowsDropped != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}

func TestDatasetIngestedMessageFromJSONInvalid(t *testing.T) {
	if _, err := DatasetIngestedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
