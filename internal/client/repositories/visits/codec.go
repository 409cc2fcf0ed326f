package visits

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/wanderlog/internal/client/models"
	"github.com/dmitrijs2005/wanderlog/internal/common"
)

// Encode serializes c in insertion order.
func Encode(c *models.Collection) ([]byte, error) {
	if c == nil {
		c = models.NewCollection()
	}
	return json.Marshal(c)
}

// Decode parses a cached collection of type t. skipped lists the keys (or
// array positions) that were ignored. Legacy entries get now as timestamps.
func Decode(data []byte, t models.EntryType, now time.Time) (c *models.Collection, skipped []string, err error) {
	c = models.NewCollection()
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: invalid json", common.ErrMalformedCache)
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		for i, value := range root.Array() {
			if value.Type != gjson.String || value.Str == "" {
				skipped = append(skipped, strconv.Itoa(i))
				continue
			}
			if c.Has(value.Str) {
				continue
			}
			c.Set(models.NewVisitEntry("local-"+value.Str, models.LocalUserID, value.Str, t, now))
		}
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			e, ok := decodeEntry(key.Str, value, t)
			if !ok {
				skipped = append(skipped, key.Str)
				return true
			}
			c.Set(e)
			return true
		})
	default:
		return nil, nil, fmt.Errorf("%w: unexpected %s", common.ErrMalformedCache, root.Type)
	}
	return c, skipped, nil
}

func decodeEntry(locationID string, value gjson.Result, t models.EntryType) (*models.VisitEntry, bool) {
	if locationID == "" || !value.IsObject() {
		return nil, false
	}
	var e models.VisitEntry
	if err := json.Unmarshal([]byte(value.Raw), &e); err != nil {
		return nil, false
	}
	e.LocationID = locationID
	e.Type = t
	if e.UserID == "" {
		e.UserID = models.LocalUserID
	}
	if e.ID == "" {
		e.ID = "local-" + locationID
	}
	if e.Rating != nil && (*e.Rating < 1 || *e.Rating > 5) {
		e.Rating = nil
	}
	e.Normalize()
	return &e, true
}
