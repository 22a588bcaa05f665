/*
 * stream.go, part of goqchem.
 *
 *
 * Copyright 2016 Esteban Gampel <egampel{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//Package etl wires named transforms between record streams, driven by
//a YAML configuration. It carries parsed job results from run logs
//into document streams for later analysis.
package etl

import (
	"encoding/json"
	"io"
)

//Record is one decoded document flowing through a pipeline.
type Record map[string]interface{}

//Source yields records one at a time; it returns io.EOF when the
//stream is exhausted.
type Source interface {
	Next() (Record, error)
}

//Sink accepts documents of any JSON-encodable shape. Flush must be
//called once after the last Write.
type Sink interface {
	Write(v interface{}) error
	Flush() error
}

//JSONSource reads one JSON document per decode from r.
type JSONSource struct {
	dec *json.Decoder
}

//NewJSONSource returns a source over the stream of JSON documents
//in r.
func NewJSONSource(r io.Reader) *JSONSource {
	return &JSONSource{dec: json.NewDecoder(r)}
}

//Next decodes the next document, or io.EOF at the end of the stream.
func (s *JSONSource) Next() (Record, error) {
	var rec Record
	if err := s.dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

//JSONSink writes each document as one JSON line.
type JSONSink struct {
	enc *json.Encoder
	w   io.Writer
}

//NewJSONSink returns a sink writing JSON lines to w.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w), w: w}
}

func (s *JSONSink) Write(v interface{}) error {
	return s.enc.Encode(v)
}

//Flush flushes the underlying writer when it supports it.
func (s *JSONSink) Flush() error {
	type flusher interface{ Flush() error }
	if f, ok := s.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

//BatchSink buffers writes and hands them to save in groups of size.
//A size of zero or less disables batching and saves every document
//immediately.
type BatchSink struct {
	save func([]interface{}) error
	buf  []interface{}
	size int
}

//NewBatchSink wraps save with batching.
func NewBatchSink(save func([]interface{}) error, size int) *BatchSink {
	return &BatchSink{save: save, size: size}
}

func (s *BatchSink) Write(v interface{}) error {
	if s.size <= 0 {
		return s.save([]interface{}{v})
	}
	s.buf = append(s.buf, v)
	if len(s.buf) >= s.size {
		return s.Flush()
	}
	return nil
}

//Flush saves whatever is buffered.
func (s *BatchSink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	err := s.save(s.buf)
	s.buf = nil
	return err
}
