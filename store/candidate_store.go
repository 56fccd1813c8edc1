package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
)

func init() {
	// Candidates decoded from JSON carry these dynamic types inside interface{} values.
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
	gob.Register([]string{})
	gob.Register(float64(0))
	gob.Register(false)
}

// CandidateStore keeps the candidates of one pool in memory.
// Internal IDs grow monotonically, so ascending ID order is insertion order.
type CandidateStore struct {
	Mu                     sync.RWMutex
	Candidates             map[uint32]model.Candidate // Internal ID to candidate record
	ExternalIDtoInternalID map[string]uint32          // candidateID to internal uint32 ID
	NextID                 uint32
	version                uint64
	generation             string
}

// NewCandidateStore returns an empty store with a fresh generation.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		Candidates:             make(map[uint32]model.Candidate),
		ExternalIDtoInternalID: make(map[string]uint32),
		generation:             uuid.NewString(),
	}
}

// Version increases on every mutation.
func (cs *CandidateStore) Version() uint64 {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()
	return cs.version
}

// Generation identifies this store's lifetime. Together with Version it
// names one exact state of the pool, even across deletes and recreates.
func (cs *CandidateStore) Generation() string {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()
	return cs.generation
}

// Upsert adds candidates or replaces those whose candidateID is already
// stored. Replaced candidates keep their position. Records are stored as
// given, not copied. The whole batch is rejected if any record lacks an ID.
func (cs *CandidateStore) Upsert(candidates []model.Candidate) (added, updated int, err error) {
	for i, c := range candidates {
		if _, ok := c.GetCandidateID(); !ok {
			return 0, 0, internalErrors.NewValidationError(model.FieldCandidateID,
				fmt.Sprintf("candidate at index %d is missing a non-empty string '%s'", i, model.FieldCandidateID))
		}
	}

	cs.Mu.Lock()
	defer cs.Mu.Unlock()

	for _, c := range candidates {
		id, _ := c.GetCandidateID()
		if internalID, exists := cs.ExternalIDtoInternalID[id]; exists {
			cs.Candidates[internalID] = c
			updated++
			continue
		}
		internalID := cs.NextID
		cs.NextID++
		cs.Candidates[internalID] = c
		cs.ExternalIDtoInternalID[id] = internalID
		added++
	}
	if len(candidates) > 0 {
		cs.version++
	}
	return added, updated, nil
}

// Get returns the candidate stored under candidateID.
func (cs *CandidateStore) Get(candidateID string) (model.Candidate, bool) {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()

	internalID, ok := cs.ExternalIDtoInternalID[candidateID]
	if !ok {
		return nil, false
	}
	c, ok := cs.Candidates[internalID]
	return c, ok
}

// Delete removes one candidate and reports whether it existed.
func (cs *CandidateStore) Delete(candidateID string) bool {
	cs.Mu.Lock()
	defer cs.Mu.Unlock()

	internalID, ok := cs.ExternalIDtoInternalID[candidateID]
	if !ok {
		return false
	}
	delete(cs.Candidates, internalID)
	delete(cs.ExternalIDtoInternalID, candidateID)
	cs.version++
	return true
}

// Retain removes every candidate whose candidateID is not in keep and
// returns how many were removed.
func (cs *CandidateStore) Retain(keep map[string]struct{}) int {
	cs.Mu.Lock()
	defer cs.Mu.Unlock()

	removed := 0
	for id, internalID := range cs.ExternalIDtoInternalID {
		if _, ok := keep[id]; ok {
			continue
		}
		delete(cs.Candidates, internalID)
		delete(cs.ExternalIDtoInternalID, id)
		removed++
	}
	if removed > 0 {
		cs.version++
	}
	return removed
}

// DeleteAll empties the store and returns how many candidates it held.
func (cs *CandidateStore) DeleteAll() int {
	cs.Mu.Lock()
	defer cs.Mu.Unlock()

	n := len(cs.Candidates)
	cs.Candidates = make(map[uint32]model.Candidate)
	cs.ExternalIDtoInternalID = make(map[string]uint32)
	cs.NextID = 0
	cs.version++
	return n
}

// Count returns the number of stored candidates.
func (cs *CandidateStore) Count() int {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()
	return len(cs.Candidates)
}

// All returns every candidate in insertion order.
func (cs *CandidateStore) All() []model.Candidate {
	candidates, _ := cs.Snapshot()
	return candidates
}

// Snapshot returns every candidate in insertion order together with the
// version they were read at.
func (cs *CandidateStore) Snapshot() ([]model.Candidate, uint64) {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()

	ids := cs.sortedIDsLocked()
	out := make([]model.Candidate, len(ids))
	for i, id := range ids {
		out[i] = cs.Candidates[id]
	}
	return out, cs.version
}

// List returns up to limit candidates starting at offset, in insertion
// order, and the total count. A non-positive limit returns everything after offset.
func (cs *CandidateStore) List(offset, limit int) ([]model.Candidate, int) {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()

	ids := cs.sortedIDsLocked()
	total := len(ids)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []model.Candidate{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]model.Candidate, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, cs.Candidates[id])
	}
	return out, total
}

func (cs *CandidateStore) sortedIDsLocked() []uint32 {
	ids := make([]uint32, 0, len(cs.Candidates))
	for id := range cs.Candidates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// gobCandidateStoreData is a helper struct for Gob encoding/decoding CandidateStore data.
// It excludes the mutex.
type gobCandidateStoreData struct {
	Candidates             map[uint32]model.Candidate
	ExternalIDtoInternalID map[string]uint32
	NextID                 uint32
	Version                uint64
	Generation             string
}

// GobEncode implements the gob.GobEncoder interface for CandidateStore.
func (cs *CandidateStore) GobEncode() ([]byte, error) {
	cs.Mu.RLock()
	defer cs.Mu.RUnlock()

	storable := make(map[uint32]model.Candidate, len(cs.Candidates))
	for id, c := range cs.Candidates {
		storable[id] = storableCandidate(c)
	}

	dataToEncode := gobCandidateStoreData{
		Candidates:             storable,
		ExternalIDtoInternalID: cs.ExternalIDtoInternalID,
		NextID:                 cs.NextID,
		Version:                cs.version,
		Generation:             cs.generation,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode candidate store data: %w", err)
	}
	return buf.Bytes(), nil
}

// storableCandidate copies c for encoding: all-string []interface{} values
// become []string and nil values are dropped, since gob cannot carry them.
func storableCandidate(c model.Candidate) model.Candidate {
	out := make(model.Candidate, len(c))
	for k, val := range c {
		switch v := val.(type) {
		case nil:
			continue
		case []interface{}:
			strs := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					strs = nil
					break
				}
				strs = append(strs, s)
			}
			if strs != nil {
				out[k] = strs
			} else {
				out[k] = v
			}
		default:
			out[k] = val
		}
	}
	return out
}

// GobDecode implements the gob.GobDecoder interface for CandidateStore.
func (cs *CandidateStore) GobDecode(data []byte) error {
	decoded := gobCandidateStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode candidate store data: %w", err)
	}

	cs.Mu.Lock()
	defer cs.Mu.Unlock()

	cs.Candidates = decoded.Candidates
	cs.ExternalIDtoInternalID = decoded.ExternalIDtoInternalID
	cs.NextID = decoded.NextID
	cs.version = decoded.Version
	cs.generation = decoded.Generation

	if cs.Candidates == nil {
		cs.Candidates = make(map[uint32]model.Candidate)
	}
	if cs.ExternalIDtoInternalID == nil {
		cs.ExternalIDtoInternalID = make(map[string]uint32)
	}
	if cs.generation == "" {
		cs.generation = uuid.NewString()
	}
	return nil
}
