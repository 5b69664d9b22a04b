// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// RawRecord is an ordered mapping from a format-native tag to the text
// values seen for it. Tags keep the order in which they first appeared.
// A RawRecord is owned by one parser while a record is open.
type RawRecord struct {
	order  []string
	values map[string][]string
}

// NewRawRecord returns an empty RawRecord.
func NewRawRecord() *RawRecord {
	return &RawRecord{values: make(map[string][]string)}
}

// Set stores a single-valued tag. When the tag already has a value the first
// one is kept and Set reports the conflict.
func (r *RawRecord) Set(tag, value string) (conflict bool) {
	if _, ok := r.values[tag]; ok {
		return true
	}
	r.order = append(r.order, tag)
	r.values[tag] = []string{value}
	return false
}

// Append adds another value to a multi-valued tag.
func (r *RawRecord) Append(tag, value string) {
	if _, ok := r.values[tag]; !ok {
		r.order = append(r.order, tag)
	}
	r.values[tag] = append(r.values[tag], value)
}

// AppendToLast extends the last value stored for tag with a space and text.
// It reports false when the tag holds no value.
func (r *RawRecord) AppendToLast(tag, text string) bool {
	vals := r.values[tag]
	if len(vals) == 0 {
		return false
	}
	last := vals[len(vals)-1]
	if last == "" {
		vals[len(vals)-1] = text
	} else {
		vals[len(vals)-1] = last + " " + text
	}
	return true
}

// Get returns the first value of tag.
func (r *RawRecord) Get(tag string) (string, bool) {
	vals := r.values[tag]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns every value of tag in insertion order.
func (r *RawRecord) Values(tag string) []string {
	return r.values[tag]
}

// Tags returns the tags in first-seen order.
func (r *RawRecord) Tags() []string {
	return r.order
}

// Len returns the number of distinct tags.
func (r *RawRecord) Len() int {
	return len(r.order)
}

// Delete removes tag from the record.
func (r *RawRecord) Delete(tag string) {
	if _, ok := r.values[tag]; !ok {
		return
	}
	delete(r.values, tag)
	for i, t := range r.order {
		if t == tag {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// SortMulti sorts the accumulated values of every tag for which isMulti
// returns true.
func (r *RawRecord) SortMulti(isMulti func(tag string) bool) {
	for tag, vals := range r.values {
		if isMulti(tag) {
			sort.Strings(vals)
		}
	}
}
