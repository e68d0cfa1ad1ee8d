// format.go - Byte-Groessen Formatierung
// Hauptfunktionen: HumanBytes2
package format

import "fmt"

const (
	Byte     = 1
	KibiByte = Byte * 1024
	MebiByte = KibiByte * 1024
	GibiByte = MebiByte * 1024

	KiloByte = Byte * 1000
	MegaByte = KiloByte * 1000
)

// HumanBytes2 formatiert Bytes binaer (KiB/MiB/GiB)
func HumanBytes2(b uint64) string {
	switch {
	case b >= GibiByte:
		return fmt.Sprintf("%.1f GiB", float64(b)/GibiByte)
	case b >= MebiByte:
		return fmt.Sprintf("%.1f MiB", float64(b)/MebiByte)
	case b >= KibiByte:
		return fmt.Sprintf("%.1f KiB", float64(b)/KibiByte)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
