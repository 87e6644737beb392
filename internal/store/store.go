// Package store provides access to the orders and buyers the shipment
// workflow operates on.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orderbridge/shipping/pkg/carrier"
)

// ErrNotFound is returned when an order or buyer does not exist.
var ErrNotFound = errors.New("not found")

// OrderSource resolves order and buyer records by identifier.
type OrderSource interface {
	Order(ctx context.Context, id string) (*carrier.Order, error)
	Buyer(ctx context.Context, id string) (*carrier.Buyer, error)
}

// FileSource reads orders and buyers from JSON files in a directory.
// Orders live in order.<id>.json and buyers in buyer.<id>.json.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Order(_ context.Context, id string) (*carrier.Order, error) {
	var order carrier.Order
	if err := s.read(fmt.Sprintf("order.%s.json", id), &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		order.ID = id
	}
	return &order, nil
}

func (s *FileSource) Buyer(_ context.Context, id string) (*carrier.Buyer, error) {
	var buyer carrier.Buyer
	if err := s.read(fmt.Sprintf("buyer.%s.json", id), &buyer); err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (s *FileSource) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

var _ OrderSource = (*FileSource)(nil)
