package market

import (
	"errors"
	"strconv"
	"strings"
)

// Item is the persisted catalog record. Price stays a string on the wire and
// in storage; it is parsed to an unsigned amount wherever value moves.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Owner       string `json:"owner"`
	Sold        uint32 `json:"sold"`
}

// ListingRequest is the caller-supplied payload for a listing. Owner is never
// part of it; it is stamped from the authenticated caller.
type ListingRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Price       string `json:"price"`
}

func NewItem(req ListingRequest, caller string) Item {
	return Item{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Location:    req.Location,
		Price:       req.Price,
		Owner:       caller,
		Sold:        0,
	}
}

// RecordSale returns a copy with the sold counter bumped by one.
func (it Item) RecordSale() Item {
	it.Sold++
	return it
}

// ParsePrice accepts a plain base-10 unsigned integer, nothing else: no sign,
// no whitespace, no empty string. Amounts are capped at 2^63-1 so every
// parseable price fits the ledger's BIGINT columns.
func ParsePrice(s string) (uint64, error) {
	if s == "" || strings.TrimSpace(s) != s || strings.HasPrefix(s, "+") {
		return 0, errors.New("price must be an unsigned integer")
	}
	v, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, errors.New("price must be an unsigned integer")
	}
	return v, nil
}
