package printer

// DefaultChunkSize is the number of bytes sent per BLE write. Cheap thermal
// printer firmware overflows its receive buffer on larger writes.
const DefaultChunkSize = 128

// splitChunks splits data into size-byte chunks; the final chunk may be
// shorter. Chunks alias the input buffer, they are never copied. Returns nil
// for empty data or a non-positive size.
func splitChunks(data []byte, size int) [][]byte {
	if len(data) == 0 || size <= 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}
	return append(chunks, data)
}
