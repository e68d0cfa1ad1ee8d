// tokenizer.go - Zeichen-Tokenizer
//
// Encode bildet Zeichencodes modulo VocabSize-1 ab und ist damit bewusst
// verlustbehaftet (viele Zeichen teilen sich einen Token). Decode bildet
// jeden Token per festem Offset auf ein druckbares Zeichen ab; EOS wird
// zum Leerstring. decode(encode(s)) == s gilt im Allgemeinen nicht.
package model

// decodeOffset verschiebt Token-IDs in den druckbaren Zeichenbereich ab ' '
const decodeOffset = 32

// Tokenizer ist der externe Kollaborateur an der Textgrenze.
// Der Decoder selbst behandelt Token-IDs als opake Integer.
type Tokenizer struct {
	vocabSize int
}

// NewTokenizer erstellt einen Tokenizer fuer ein Vokabular inkl. EOS
func NewTokenizer(vocabSize int) Tokenizer {
	return Tokenizer{vocabSize: vocabSize}
}

// EOS gibt den End-of-Sequence-Token zurueck
func (t Tokenizer) EOS() int {
	return t.vocabSize - 1
}

// Encode bildet jeden Zeichencode modulo VocabSize-1 auf einen Token ab.
// Ergebnis-IDs liegen in [0, VocabSize-2]; EOS wird nie erzeugt.
func (t Tokenizer) Encode(text string) []int {
	ids := make([]int, 0, len(text))
	for _, r := range text {
		ids = append(ids, int(r)%(t.vocabSize-1))
	}
	return ids
}

// Decode bildet Token-IDs auf Zeichen ab; EOS dekodiert zum Leerstring
func (t Tokenizer) Decode(ids []int) string {
	out := make([]rune, 0, len(ids))
	for _, id := range ids {
		if id == t.EOS() {
			continue
		}
		out = append(out, rune(id+decodeOffset))
	}
	return string(out)
}
