package formclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SignatureRequiredError aborts a sign invoked with an empty capture. No
// network call is made.
type SignatureRequiredError struct {
	Message string
}

func (e *SignatureRequiredError) Error() string { return e.Message }

// ErrLocked reports a save or sign attempted on a record that is already
// read-only.
var ErrLocked = errors.New("record is locked")

// Controller owns one form record for one check-in. All methods are safe for
// use from a single goroutine; a mutex guards state so a stale Load response
// cannot race a newer one.
type Controller struct {
	client  *Client
	schema  Schema
	checkin string

	mu         sync.Mutex
	state      map[string]interface{}
	id         string
	generation uint64
	creating   bool
}

func NewController(client *Client, schema Schema, checkinID string) *Controller {
	c := &Controller{
		client:  client,
		schema:  schema,
		checkin: checkinID,
	}
	c.state = c.defaultState()
	return c
}

func (c *Controller) defaultState() map[string]interface{} {
	state := make(map[string]interface{}, len(c.schema.Defaults)+1)
	for k, v := range c.schema.Defaults {
		state[k] = copyValue(v)
	}
	state["checkin"] = c.checkin
	return state
}

// Load resolves the record for the check-in, creating it when none exists.
// Without a check-in identifier the call is a no-op. Each load captures a
// generation token; a response arriving after a newer Load started is
// discarded rather than overwriting fresher state.
func (c *Controller) Load(ctx context.Context) error {
	if c.checkin == "" {
		return nil
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	knownID := c.id
	createInFlight := c.creating
	c.mu.Unlock()

	records, err := c.client.listRecords(ctx, c.schema.Path, c.checkin)
	if err != nil {
		c.resetToDefaults(gen)
		return err
	}

	var record map[string]interface{}
	if len(records) > 0 {
		// first wins on duplicates
		record = records[0]
	} else if knownID == "" && !createInFlight {
		c.mu.Lock()
		if c.creating || c.id != "" {
			c.mu.Unlock()
			return nil
		}
		c.creating = true
		c.mu.Unlock()

		record, err = c.client.createRecord(ctx, c.schema.Path, c.checkin)

		c.mu.Lock()
		c.creating = false
		c.mu.Unlock()
		if err != nil {
			c.resetToDefaults(gen)
			return err
		}
	} else {
		return nil
	}

	c.adopt(gen, record)
	return nil
}

// adopt merges the server record into state: defaults first, server fields
// override, then the check-in id is re-asserted last.
func (c *Controller) adopt(gen uint64, record map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}

	state := c.defaultState()
	for k, v := range record {
		state[k] = v
	}
	state["checkin"] = c.checkin
	c.state = state
	if id, ok := record["id"].(string); ok {
		c.id = id
	}
}

func (c *Controller) resetToDefaults(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.state = c.defaultState()
}

// Locked derives the read-only state purely from the persisted lock flag,
// never from transient call state, so it survives a reload of the record.
func (c *Controller) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockedLocked()
}

func (c *Controller) lockedLocked() bool {
	locked, _ := c.state[c.schema.lockFlag()].(bool)
	return locked
}

// ID returns the server-assigned record id, empty until resolved.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Value reads one field from local state.
func (c *Controller) Value(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state[key]
}

// State returns a shallow snapshot of local state.
func (c *Controller) State() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]interface{}, len(c.state))
	for k, v := range c.state {
		snapshot[k] = v
	}
	return snapshot
}

// Set replaces one top-level field. No-op when locked.
func (c *Controller) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked() {
		return
	}
	c.state[key] = value
}

// SetIn replaces one key inside a nested object section, copy-on-write.
func (c *Controller) SetIn(section, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked() {
		return
	}
	existing, _ := c.state[section].(map[string]interface{})
	next := make(map[string]interface{}, len(existing)+1)
	for k, v := range existing {
		next[k] = v
	}
	next[key] = value
	c.state[section] = next
}

// AppendRow appends a templated row to a tabular section, copy-on-write.
func (c *Controller) AppendRow(section string, template map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked() {
		return
	}
	rows := c.rowsOf(section)
	next := make([]interface{}, len(rows), len(rows)+1)
	copy(next, rows)
	c.state[section] = append(next, copyValue(template))
}

// SetRowField updates one cell of row i. Out-of-range indices are ignored.
func (c *Controller) SetRowField(section string, i int, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked() {
		return
	}
	rows := c.rowsOf(section)
	if i < 0 || i >= len(rows) {
		return
	}
	next := make([]interface{}, len(rows))
	copy(next, rows)
	row, _ := rows[i].(map[string]interface{})
	nextRow := make(map[string]interface{}, len(row)+1)
	for k, v := range row {
		nextRow[k] = v
	}
	nextRow[key] = value
	next[i] = nextRow
	c.state[section] = next
}

// RemoveRow deletes row i; trailing rows shift down one index.
func (c *Controller) RemoveRow(section string, i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockedLocked() {
		return
	}
	rows := c.rowsOf(section)
	if i < 0 || i >= len(rows) {
		return
	}
	next := make([]interface{}, 0, len(rows)-1)
	next = append(next, rows[:i]...)
	next = append(next, rows[i+1:]...)
	c.state[section] = next
}

func (c *Controller) rowsOf(section string) []interface{} {
	rows, _ := c.state[section].([]interface{})
	return rows
}

// Save persists the curated field subset. The record is resolved first when
// no id is known yet. The server response is merged over local state.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.lockedLocked() {
		c.mu.Unlock()
		return ErrLocked
	}
	c.mu.Unlock()

	// snapshot the edits before resolving so a Load cannot clobber them
	payload := c.savePayload()

	if err := c.ensureID(ctx); err != nil {
		return err
	}

	record, err := c.client.patchRecord(ctx, c.schema.Path, c.ID(), payload)
	if err != nil {
		return err
	}
	c.merge(record)
	return nil
}

// ensureID resolves the record when no id is known yet.
func (c *Controller) ensureID(ctx context.Context) error {
	if c.ID() != "" {
		return nil
	}
	if err := c.Load(ctx); err != nil {
		return err
	}
	if c.ID() == "" {
		return fmt.Errorf("no record id after resolve")
	}
	return nil
}

func (c *Controller) savePayload() map[string]interface{} {
	c.mu.Lock()
	payload := make(map[string]interface{}, len(c.schema.Persisted))
	for _, key := range c.schema.Persisted {
		if v, ok := c.state[key]; ok {
			payload[key] = v
		}
	}
	c.mu.Unlock()

	if c.schema.PrepareSave != nil {
		c.schema.PrepareSave(payload)
	}
	return payload
}

// merge folds a server response over local state, server authoritative.
func (c *Controller) merge(record map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range record {
		c.state[k] = v
	}
	c.state["checkin"] = c.checkin
	if id, ok := record["id"].(string); ok {
		c.id = id
	}
}

// Sign saves the draft, then submits the signature evidence. An empty
// capture fails locally before any network call.
func (c *Controller) Sign(ctx context.Context, signatureDataURL string) error {
	if signatureDataURL == "" {
		return &SignatureRequiredError{Message: c.schema.signRequiredMessage()}
	}
	if c.Locked() {
		return ErrLocked
	}

	// sign snapshots the latest edits, not a stale copy
	if err := c.Save(ctx); err != nil {
		return err
	}

	record, err := c.client.signRecord(ctx, c.schema.Path, c.ID(), map[string]interface{}{
		"signature_data_url": signatureDataURL,
	})
	if err != nil {
		return err
	}
	c.merge(record)
	return nil
}

// AddSignature submits one evidence entry on a multi-signer form.
func (c *Controller) AddSignature(ctx context.Context, signatureDataURL, signerName, signerRole string) error {
	if signatureDataURL == "" {
		return &SignatureRequiredError{Message: c.schema.signRequiredMessage()}
	}
	if c.Locked() {
		return ErrLocked
	}
	if err := c.Save(ctx); err != nil {
		return err
	}

	record, err := c.client.signRecord(ctx, c.schema.Path, c.ID(), map[string]interface{}{
		"signature_data_url": signatureDataURL,
		"signer_name":        signerName,
		"signer_role":        signerRole,
	})
	if err != nil {
		return err
	}
	c.merge(record)
	return nil
}

// Lock finalizes a multi-signer form. With zero signatures on the record the
// confirm callback decides whether to proceed.
func (c *Controller) Lock(ctx context.Context, confirm func() bool) error {
	if !c.schema.MultiSign {
		return fmt.Errorf("form %s does not support an explicit lock", c.schema.Path)
	}
	if err := c.ensureID(ctx); err != nil {
		return err
	}
	if c.Locked() {
		return nil
	}
	if c.signatureCount() == 0 && confirm != nil && !confirm() {
		return nil
	}

	record, err := c.client.lockRecord(ctx, c.schema.Path, c.ID())
	if err != nil {
		return err
	}
	c.merge(record)
	return nil
}

// Unlock reverts the signed state on forms that allow it.
func (c *Controller) Unlock(ctx context.Context) error {
	if !c.schema.Unlockable {
		return fmt.Errorf("form %s does not support unlock", c.schema.Path)
	}
	if err := c.ensureID(ctx); err != nil {
		return err
	}
	record, err := c.client.unlockRecord(ctx, c.schema.Path, c.ID())
	if err != nil {
		return err
	}
	c.merge(record)
	return nil
}

func (c *Controller) signatureCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	sigs, _ := c.state["signatures"].([]interface{})
	return len(sigs)
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = copyValue(item)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = copyValue(item)
		}
		return s
	default:
		return val
	}
}
