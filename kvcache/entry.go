// Package kvcache - Key/Value-Historie fuer inkrementelle Attention
//
// Ein Entry haelt pro Layer die bisher berechneten Key- und Value-Vektoren
// in Dekodier-Reihenfolge. Invariante: len(Keys) == len(Values), beide
// wachsen nur per Append um genau einen Eintrag pro Decoder-Schritt.
package kvcache

import "errors"

// ErrCorrupt meldet einen Cache-Eintrag mit unterschiedlich langen
// Key- und Value-Sequenzen
var ErrCorrupt = errors.New("kv cache corrupt")

// Entry ist die Key/Value-Historie eines Layers
type Entry struct {
	Keys   [][]float64 `json:"keys"`
	Values [][]float64 `json:"values"`
}

// Len gibt die Anzahl gecachter Positionen zurueck
func (e *Entry) Len() int {
	return len(e.Keys)
}

// Append haengt genau ein Key/Value-Paar an
func (e *Entry) Append(key, value []float64) {
	e.Keys = append(e.Keys, key)
	e.Values = append(e.Values, value)
}

// Check prueft die Laengen-Invariante
func (e *Entry) Check() error {
	if len(e.Keys) != len(e.Values) {
		return ErrCorrupt
	}
	return nil
}

// repair kuerzt Keys und Values auf die kuerzere der beiden Sequenzen
// und gibt die Anzahl verworfener Positionen zurueck
func (e *Entry) repair() int {
	n := min(len(e.Keys), len(e.Values))
	dropped := max(len(e.Keys), len(e.Values)) - n
	e.Keys = e.Keys[:n]
	e.Values = e.Values[:n]
	return dropped
}

// truncate verwirft die aeltesten Positionen bis hoechstens n uebrig sind
func (e *Entry) truncate(n int) {
	if n <= 0 || e.Len() <= n {
		return
	}
	e.Keys = e.Keys[e.Len()-n:]
	e.Values = e.Values[len(e.Values)-n:]
}

// Clone erstellt eine tiefe Kopie, damit der Saver einen stabilen
// Schnappschuss bekommt, waehrend der Decoder weiter anhaengt
func (e *Entry) Clone() *Entry {
	out := &Entry{
		Keys:   make([][]float64, len(e.Keys)),
		Values: make([][]float64, len(e.Values)),
	}
	for i, k := range e.Keys {
		out.Keys[i] = append([]float64(nil), k...)
	}
	for i, v := range e.Values {
		out.Values[i] = append([]float64(nil), v...)
	}
	return out
}
