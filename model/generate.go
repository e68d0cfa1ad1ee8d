// generate.go - Generierungsschleife und Antwort-Einstiegspunkt
// Hauptfunktionen: Generate, Respond
package model

import "context"

// Generate fuehrt die Generierungsschleife ab first aus: jeder Output wird
// zum naechsten Input, bis EOS faellt oder MaxTokens Schritte erreicht sind
// (harte Schrittzahl-Obergrenze, kein Timeout). EOS erscheint nie im
// Ergebnis. fn wird, falls gesetzt, pro emittiertem Token aufgerufen.
//
// Abbruch per ctx greift nur an Schrittgrenzen; die Appends und Saves des
// bereits laufenden Schritts bleiben committed.
func (d *Decoder) Generate(ctx context.Context, first int, fn func(token int) error) ([]int, error) {
	input := first
	var out []int

	for range d.weights.Config.MaxTokens {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		token, err := d.Step(input)
		if err != nil {
			// Shape- und Cache-Fehler brechen die gesamte Antwort ab
			return nil, err
		}

		if token == d.weights.Config.EOS() {
			break
		}

		out = append(out, token)
		if fn != nil {
			if err := fn(token); err != nil {
				return out, err
			}
		}

		input = token
	}

	return out, nil
}

// Respond ist der Einstiegspunkt der Chat-Schicht: Text kodieren, die
// Schleife mit dem ersten Input-Token starten, Ergebnis dekodieren.
// Ein leeres Encoding liefert den Leerstring, ohne den Cache anzufassen.
func (d *Decoder) Respond(ctx context.Context, text string) (string, error) {
	return d.RespondStream(ctx, text, nil)
}

// RespondStream ist Respond mit einem Callback pro dekodiertem Fragment,
// fuer gestreamte Antworten
func (d *Decoder) RespondStream(ctx context.Context, text string, fn func(fragment string) error) (string, error) {
	ids := d.tok.Encode(text)
	if len(ids) == 0 {
		return "", nil
	}

	var tokenFn func(int) error
	if fn != nil {
		tokenFn = func(token int) error {
			return fn(d.tok.Decode([]int{token}))
		}
	}

	out, err := d.Generate(ctx, ids[0], tokenFn)
	if err != nil {
		return "", err
	}

	return d.tok.Decode(out), nil
}
