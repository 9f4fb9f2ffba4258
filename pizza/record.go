// Package pizza generates the content records off the main runner and turns
// them into render nodes once they arrive.
package pizza

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ContentRecord is one generated pizza. Body is the ingredient list markup.
type ContentRecord struct {
	Name string
	Body string
}

// RecordBatch is the complete output of one generation, delivered as a unit.
type RecordBatch []ContentRecord

// GenerateRequest is the message posted to the worker.
type GenerateRequest struct {
	PizzaNumber int `json:"pizzaNumber"`
}

// wireRecord is the worker's completion message element.
type wireRecord struct {
	Name  string `json:"name"`
	Pizza string `json:"pizza"`
}

// ErrBadMessage wraps every decode failure at the worker boundary.
var ErrBadMessage = errors.New("malformed worker message")

// EncodeRequest builds the outbound message.
func EncodeRequest(count int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative pizza number %d", ErrBadMessage, count)
	}
	data, err := json.Marshal(GenerateRequest{PizzaNumber: count})
	if err != nil {
		return nil, fmt.Errorf("json marshal failed: %w", err)
	}
	return data, nil
}

// DecodeRequest parses the outbound message on the worker side.
func DecodeRequest(data []byte) (GenerateRequest, error) {
	var req GenerateRequest
	if len(data) == 0 {
		return req, fmt.Errorf("%w: empty request", ErrBadMessage)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if req.PizzaNumber < 0 {
		return req, fmt.Errorf("%w: negative pizza number %d", ErrBadMessage, req.PizzaNumber)
	}
	return req, nil
}

// EncodeBatch builds the inbound completion message.
func EncodeBatch(batch RecordBatch) ([]byte, error) {
	wire := make([]wireRecord, len(batch))
	for i, r := range batch {
		wire[i] = wireRecord{Name: r.Name, Pizza: r.Body}
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("json marshal failed: %w", err)
	}
	return data, nil
}

// DecodeBatch parses the completion message on the main side.
func DecodeBatch(data []byte) (RecordBatch, error) {
	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	batch := make(RecordBatch, len(wire))
	for i, w := range wire {
		batch[i] = ContentRecord{Name: w.Name, Body: w.Pizza}
	}
	return batch, nil
}
