/*
Package manualentry keeps the eight leading digit groups a user may type in
instead of trusting OCR for them. Values survive across sessions in a small
key-value store (a JSON file or a Redis hash) under the keys GROUP_1..GROUP_8.
*/
package manualentry

import (
	"errors"
	"fmt"

	"github.com/tuumbleweed/xerr"
)

// Count is the number of manually entered groups.
const Count = 8

// ErrInvalidGroup means a group is not exactly four digits.
var ErrInvalidGroup = errors.New("each group must be exactly 4 digits")

// Entries holds the manual groups in order.
type Entries [Count]string

// DefaultEntries pre-fill the input form when nothing was stored yet.
var DefaultEntries = Entries{"3524", "1060", "8732", "8800", "0211", "5900", "0689", "8622"}

// Key returns the store key of the group at index (0-based).
func Key(index int) string {
	return fmt.Sprintf("GROUP_%d", index+1)
}

// AllEmpty reports whether no group was entered.
func (entries Entries) AllEmpty() bool {
	for _, group := range entries {
		if group != "" {
			return false
		}
	}
	return true
}

// Slice returns the groups as a slice.
func (entries Entries) Slice() []string {
	return append([]string(nil), entries[:]...)
}

// FromSlice copies up to Count groups; missing positions stay empty.
func FromSlice(groups []string) (entries Entries) {
	copy(entries[:], groups)
	return entries
}

// Validate requires every group to be exactly four ASCII digits.
func (entries Entries) Validate() (e *xerr.Error) {
	for index, group := range entries {
		if !isGroup(group) {
			return xerr.NewError(ErrInvalidGroup, "validate manual entries", map[string]any{
				"key": Key(index), "value": group,
			})
		}
	}
	return nil
}

// fromMap fills entries from key/value pairs, falling back to defaults per key.
func fromMap(values map[string]string, defaults Entries) (entries Entries) {
	for index := range entries {
		value, found := values[Key(index)]
		if !found {
			value = defaults[index]
		}
		entries[index] = value
	}
	return entries
}

func (entries Entries) toMap() map[string]string {
	values := make(map[string]string, Count)
	for index, group := range entries {
		values[Key(index)] = group
	}
	return values
}

func isGroup(group string) bool {
	if len(group) != 4 {
		return false
	}
	for i := 0; i < len(group); i++ {
		if group[i] < '0' || group[i] > '9' {
			return false
		}
	}
	return true
}
