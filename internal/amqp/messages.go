package amqp

import (
	"encoding/json"
	"time"
)

// DatasetIngestedMessage announces a committed upload to downstream consumers.
// It carries identifiers only; consumers fetch rows from the database.
type DatasetIngestedMessage struct {
	DatasetID   int64     `json:"dataset_id"`
	Name        string    `json:"name"`
	RowCount    int       `json:"row_count"`
	RowsDropped int       `json:"rows_dropped"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewDatasetIngestedMessage creates an ingestion announcement for a dataset
func NewDatasetIngestedMessage(id int64, name string, rowCount, rowsDropped int) *DatasetIngestedMessage {
	return &DatasetIngestedMessage{
		DatasetID:   id,
		Name:        name,
		RowCount:    rowCount,
		RowsDropped: rowsDropped,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetIngestedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetIngestedMessageFromJSON creates a message from JSON bytes
func DatasetIngestedMessageFromJSON(data []byte) (*DatasetIngestedMessage, error) {
	var msg DatasetIngestedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
