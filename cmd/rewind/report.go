package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// snapshot is a state that renders both as text and JSON.
type snapshot interface {
	fmt.Stringer
	json.Marshaler
}

// report collects walkthrough steps and prints them as text or JSON.
type report struct {
	asJSON bool
	doc    []byte
	out    io.Writer
}

func newReport(out io.Writer, asJSON bool) *report {
	return &report{asJSON: asJSON, doc: []byte(`{"steps":[]}`), out: out}
}

// step records a labelled snapshot. Text output is written immediately.
func (r *report) step(label string, s snapshot) error {
	if !r.asJSON {
		_, err := fmt.Fprintf(r.out, "%-22s %s\n", label+":", s)
		return err
	}

	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}
	item, err := sjson.SetBytes([]byte(`{}`), "step", label)
	if err != nil {
		return err
	}
	if item, err = sjson.SetRawBytes(item, "state", data); err != nil {
		return err
	}
	r.doc, err = sjson.SetRawBytes(r.doc, "steps.-1", item)
	return err
}

// note records a message that has no snapshot, such as an exhausted undo.
func (r *report) note(label, message string) error {
	if !r.asJSON {
		_, err := fmt.Fprintf(r.out, "%-22s %s\n", label+":", message)
		return err
	}

	item, err := sjson.SetBytes([]byte(`{}`), "step", label)
	if err != nil {
		return err
	}
	if item, err = sjson.SetBytes(item, "note", message); err != nil {
		return err
	}
	r.doc, err = sjson.SetRawBytes(r.doc, "steps.-1", item)
	return err
}

// stepOrNote records snap when ok and the empty message otherwise.
func stepOrNote[S snapshot](r *report, label string, snap S, ok bool, empty string) error {
	if !ok {
		return r.note(label, empty)
	}
	return r.step(label, snap)
}

// set adds a top-level JSON value. Text output prints it as a summary line.
func (r *report) set(key string, value any) error {
	if !r.asJSON {
		_, err := fmt.Fprintf(r.out, "%-22s %v\n", key+":", value)
		return err
	}

	var err error
	r.doc, err = sjson.SetBytes(r.doc, key, value)
	return err
}

// flush writes the JSON document. It does nothing for text output.
func (r *report) flush() error {
	if !r.asJSON {
		return nil
	}
	_, err := r.out.Write(pretty.Pretty(r.doc))
	return err
}
