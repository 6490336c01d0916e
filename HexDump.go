package h3cheats

import (
	"fmt"
	"io"
)

// prints hexdump, 16 bytes per line, with ascii chars on the right
func HexDump(w io.Writer, buffer []byte, ea uintptr) {
	for i := 0; i < len(buffer); i += 16 {
		fmt.Fprintf(w, "%08X:", uintptr(i)+ea)
		for j := 0; j < 16; j++ {
			if j == 8 {
				fmt.Fprint(w, " ")
			}
			if i+j < len(buffer) {
				fmt.Fprintf(w, " %02x", buffer[i+j])
			} else {
				fmt.Fprint(w, "   ")
			}
		}

		fmt.Fprint(w, "  |")

		for j := 0; j < 16; j++ {
			if i+j < len(buffer) && buffer[i+j] >= 32 && buffer[i+j] <= 126 {
				fmt.Fprintf(w, "%c", buffer[i+j])
			} else {
				fmt.Fprint(w, " ")
			}
		}

		fmt.Fprintln(w, "|")
	}
}
