// Package entity holds level entities as ordered keyvalue lists with output
// connections, parses and marshals entity lumps, and translates the Quake 3
// trigger graph into Source input/output connections.
//
// QPov
//
// Copyright (C) Thomas Habets <thomas@habets.se> 2015
// https://github.com/ThomasHabets/qpov
//
//   This program is free software; you can redistribute it and/or modify
//   it under the terms of the GNU General Public License as published by
//   the Free Software Foundation; either version 2 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU General Public License for more details.
//
//   You should have received a copy of the GNU General Public License along
//   with this program; if not, write to the Free Software Foundation, Inc.,
//   51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
//
package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var (
	coordRE = regexp.MustCompile(`^\s*(-?[0-9.eE+-]+)\s+(-?[0-9.eE+-]+)\s+(-?[0-9.eE+-]+)\s*$`)
)

// A KeyValue is one entity property.
type KeyValue struct {
	Key   string
	Value string
}

// A Connection fires Input on every entity named Target when the owner fires
// Output.
type Connection struct {
	Output      string
	Target      string
	Input       string
	Param       string
	Delay       float32
	TimesToFire int // -1 is unlimited.
}

// String returns the connection in entity lump form, without the output name.
func (c Connection) String() string {
	return strings.Join([]string{c.Target, c.Input, c.Param, FormatFloat(c.Delay), strconv.Itoa(c.TimesToFire)}, ",")
}

// An Entity is an ordered list of properties plus output connections.
type Entity struct {
	KeyValues   []KeyValue
	Connections []Connection
}

// New returns an entity with only a classname.
func New(classname string) *Entity {
	e := &Entity{}
	e.Set("classname", classname)
	return e
}

// Get returns a property, or "" if not set.
func (e *Entity) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Lookup returns a property and whether it was set.
func (e *Entity) Lookup(key string) (string, bool) {
	for _, kv := range e.KeyValues {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set sets a property, keeping its position if it already exists.
func (e *Entity) Set(key, value string) {
	for n := range e.KeyValues {
		if e.KeyValues[n].Key == key {
			e.KeyValues[n].Value = value
			return
		}
	}
	e.KeyValues = append(e.KeyValues, KeyValue{Key: key, Value: value})
}

// Delete removes a property.
func (e *Entity) Delete(key string) {
	for n := range e.KeyValues {
		if e.KeyValues[n].Key == key {
			e.KeyValues = append(e.KeyValues[:n], e.KeyValues[n+1:]...)
			return
		}
	}
}

// ClassName returns the classname.
func (e *Entity) ClassName() string { return e.Get("classname") }

// SetClassName sets the classname.
func (e *Entity) SetClassName(c string) { e.Set("classname", c) }

// Name returns the targetname.
func (e *Entity) Name() string { return e.Get("targetname") }

// SetName sets the targetname.
func (e *Entity) SetName(n string) { e.Set("targetname", n) }

// Spawnflags returns the spawnflags, or 0 if unset or malformed.
func (e *Entity) Spawnflags() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.Get("spawnflags")))
	if err != nil {
		return 0
	}
	return n
}

// Origin returns the origin, or the zero vector if unset or malformed.
func (e *Entity) Origin() mgl32.Vec3 {
	v, err := ParseVec3(e.Get("origin"))
	if err != nil {
		return mgl32.Vec3{}
	}
	return v
}

// SetOrigin sets the origin.
func (e *Entity) SetOrigin(v mgl32.Vec3) {
	e.Set("origin", FormatVec3(v))
}

// AddConnection appends an output connection.
func (e *Entity) AddConnection(c Connection) {
	e.Connections = append(e.Connections, c)
}

// ParseVec3 parses "x y z".
func ParseVec3(s string) (mgl32.Vec3, error) {
	m := coordRE.FindStringSubmatch(s)
	if len(m) != 4 {
		return mgl32.Vec3{}, fmt.Errorf("vector parse fail: %q", s)
	}
	var v mgl32.Vec3
	for i := range v {
		f, err := strconv.ParseFloat(m[i+1], 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("vector parse fail: %q", s)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// FormatFloat formats a float the shortest way that reads back the same.
func FormatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// FormatVec3 formats a vector as "x y z".
func FormatVec3(v mgl32.Vec3) string {
	return FormatFloat(v[0]) + " " + FormatFloat(v[1]) + " " + FormatFloat(v[2])
}

// parseFloat parses a float property the way the game does for numeric
// keys: surrounding space is allowed, anything else fails.
func parseFloat(s string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// parseConnection recognizes a keyvalue holding an output connection.
func parseConnection(kv KeyValue) (Connection, bool) {
	if !strings.HasPrefix(kv.Key, "On") {
		return Connection{}, false
	}
	sep := ","
	if strings.Contains(kv.Value, "\x1b") {
		sep = "\x1b"
	}
	parts := strings.Split(kv.Value, sep)
	if len(parts) != 5 {
		return Connection{}, false
	}
	delay, ok := parseFloat(parts[3])
	if !ok {
		return Connection{}, false
	}
	times, err := strconv.Atoi(parts[4])
	if err != nil {
		return Connection{}, false
	}
	return Connection{
		Output:      kv.Key,
		Target:      parts[0],
		Input:       parts[1],
		Param:       parts[2],
		Delay:       delay,
		TimesToFire: times,
	}, true
}

// Parse parses an entity lump. Values may span lines.
//
// E.g.:
//   {
//     "classname" "light"
//     "origin" "1 2 3"
//   }
//   {
//     "classname" "trigger_multiple"
//     "OnStartTouch" "door1,Open,,0,-1"
//   }
func Parse(in string) ([]*Entity, error) {
	p := &parser{in: in}
	var ents []*Entity
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok {
		case "":
			return ents, nil
		case "{":
		default:
			return nil, errors.Errorf("parse error at offset %d: expected '{', got %q", p.pos, tok)
		}
		ent := &Entity{}
		for {
			key, err := p.next()
			if err != nil {
				return nil, err
			}
			if key == "}" {
				break
			}
			if key == "" || key == "{" {
				return nil, errors.Errorf("parse error at offset %d: unexpected %q in entity", p.pos, key)
			}
			val, err := p.next()
			if err != nil {
				return nil, err
			}
			if val == "" || val == "{" || val == "}" {
				return nil, errors.Errorf("parse error at offset %d: key %q without value", p.pos, key)
			}
			kv := KeyValue{Key: unquote(key), Value: unquote(val)}
			if c, ok := parseConnection(kv); ok {
				ent.Connections = append(ent.Connections, c)
				continue
			}
			ent.KeyValues = append(ent.KeyValues, kv)
		}
		ents = append(ents, ent)
	}
}

type parser struct {
	in  string
	pos int
}

// next returns the next token: "{", "}", a string still in its quotes, or
// "" at end of input.
func (p *parser) next() (string, error) {
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' && c != 0 {
			break
		}
		p.pos++
	}
	if p.pos >= len(p.in) {
		return "", nil
	}
	switch c := p.in[p.pos]; c {
	case '{', '}':
		p.pos++
		return string(c), nil
	case '"':
		end := strings.IndexByte(p.in[p.pos+1:], '"')
		if end < 0 {
			return "", errors.Errorf("unterminated string at offset %d", p.pos)
		}
		tok := p.in[p.pos : p.pos+end+2]
		p.pos += end + 2
		return tok, nil
	default:
		return "", errors.Errorf("parse error at offset %d: unexpected %q", p.pos, c)
	}
}

func unquote(s string) string {
	return s[1 : len(s)-1]
}

// Marshal formats entities as an entity lump.
func Marshal(ents []*Entity) string {
	var b strings.Builder
	for _, e := range ents {
		b.WriteString("{\n")
		for _, kv := range e.KeyValues {
			fmt.Fprintf(&b, "\"%s\" \"%s\"\n", kv.Key, kv.Value)
		}
		for _, c := range e.Connections {
			fmt.Fprintf(&b, "\"%s\" \"%s\"\n", c.Output, c.String())
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// An Index maps targetnames to the entities carrying them. Names need not be
// unique.
type Index map[string][]*Entity

// NewIndex indexes entities by targetname. Unnamed entities are left out.
func NewIndex(ents []*Entity) Index {
	idx := make(Index)
	for _, e := range ents {
		if n := e.Name(); n != "" {
			idx[n] = append(idx[n], e)
		}
	}
	return idx
}

// Targets returns the entities named by e's "target" key.
func (idx Index) Targets(e *Entity) []*Entity {
	t := e.Get("target")
	if t == "" {
		return nil
	}
	return idx[t]
}
