// Copyright 2026 biblio Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

// FreqDict maps terms to dense ids and tracks how often each term has been
// counted. Ids are assigned in first-seen order.
type FreqDict struct {
	index map[string]int32
	terms []string
	freqs []int32
}

func NewFreqDict() *FreqDict {
	return &FreqDict{index: make(map[string]int32)}
}

func (d *FreqDict) Count() int {
	return len(d.terms)
}

// Id returns the id of a term and counts one occurrence. A new id is
// assigned when the term is seen for the first time.
func (d *FreqDict) Id(term string) int32 {
	if id, ok := d.index[term]; ok {
		d.freqs[id]++
		return id
	}
	id := int32(len(d.terms))
	d.index[term] = id
	d.terms = append(d.terms, term)
	d.freqs = append(d.freqs, 1)
	return id
}

// Lookup returns the id of a term without counting an occurrence.
func (d *FreqDict) Lookup(term string) (int32, bool) {
	id, ok := d.index[term]
	return id, ok
}

// Term returns the term of an id.
func (d *FreqDict) Term(id int32) (string, bool) {
	if id < 0 || id >= int32(len(d.terms)) {
		return "", false
	}
	return d.terms[id], true
}

// Freq returns how often the term of an id has been counted.
func (d *FreqDict) Freq(id int32) int32 {
	if id < 0 || id >= int32(len(d.freqs)) {
		return 0
	}
	return d.freqs[id]
}
