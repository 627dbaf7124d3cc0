package forward

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// RFC 2435 JPEG/RTP payloader. Camera MJPEG frames carry their own
// JFIF headers; those are stripped and replaced with the compact RTP
// form, with the quantization tables shipped in the first fragment
// (Q=255, dynamically defined tables).

const (
	jpegHeaderSize      = 8
	jpegQuantHeaderSize = 4

	// Q values 128-255 mean the tables travel in-band
	jpegDynamicQ = 255
)

var errNoJPEGPayload = errors.New("no entropy-coded data found")

// JPEGPayloader fragments baseline JPEG images per RFC 2435.
type JPEGPayloader struct{}

type jpegImage struct {
	typ        uint8 // 0 = 4:2:2, 1 = 4:2:0
	width      int
	height     int
	quantLuma  []byte
	quantChrom []byte
	scan       []byte
}

// Payload fragments one JPEG image into RTP payloads no larger than mtu.
func (p *JPEGPayloader) Payload(mtu uint16, payload []byte) [][]byte {
	img, err := parseJPEG(payload)
	if err != nil {
		return nil
	}

	quant := make([]byte, 0, jpegQuantHeaderSize+len(img.quantLuma)+len(img.quantChrom))
	quant = append(quant, 0, 0) // MBZ, precision (8-bit tables)
	quant = binary.BigEndian.AppendUint16(quant, uint16(len(img.quantLuma)+len(img.quantChrom)))
	quant = append(quant, img.quantLuma...)
	quant = append(quant, img.quantChrom...)

	var out [][]byte
	offset := 0
	for offset < len(img.scan) {
		header := make([]byte, jpegHeaderSize)
		header[0] = 0 // type-specific
		header[1] = byte(offset >> 16)
		header[2] = byte(offset >> 8)
		header[3] = byte(offset)
		header[4] = img.typ
		header[5] = jpegDynamicQ
		header[6] = byte(img.width / 8)
		header[7] = byte(img.height / 8)

		fragment := header
		if offset == 0 {
			fragment = append(fragment, quant...)
		}

		room := int(mtu) - len(fragment)
		if room <= 0 {
			return nil
		}
		if room > len(img.scan)-offset {
			room = len(img.scan) - offset
		}

		fragment = append(fragment, img.scan[offset:offset+room]...)
		out = append(out, fragment)
		offset += room
	}

	return out
}

// parseJPEG walks the JFIF marker stream pulling out what the RTP
// form needs: frame geometry, subsampling type, quantization tables,
// and the entropy-coded scan.
func parseJPEG(data []byte) (*jpegImage, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, errors.New("not a JPEG image")
	}

	img := &jpegImage{}
	quantTables := make(map[uint8][]byte)

	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return nil, fmt.Errorf("bad marker at offset %d", i)
		}
		marker := data[i+1]
		segLen := int(binary.BigEndian.Uint16(data[i+2:]))
		if i+2+segLen > len(data) {
			return nil, errors.New("truncated segment")
		}
		seg := data[i+4 : i+2+segLen]

		switch marker {
		case 0xDB: // DQT
			for len(seg) >= 65 {
				precision := seg[0] >> 4
				id := seg[0] & 0x0F
				if precision != 0 {
					return nil, errors.New("16-bit quantization tables not supported")
				}
				quantTables[id] = seg[1:65]
				seg = seg[65:]
			}
		case 0xC0: // SOF0 baseline
			if len(seg) < 6 {
				return nil, errors.New("short SOF0")
			}
			img.height = int(binary.BigEndian.Uint16(seg[1:]))
			img.width = int(binary.BigEndian.Uint16(seg[3:]))
			numComponents := int(seg[5])
			if numComponents != 3 || len(seg) < 6+numComponents*3 {
				return nil, errors.New("only 3-component JPEG supported")
			}
			switch seg[7] { // luma sampling factors
			case 0x21:
				img.typ = 0 // 4:2:2
			case 0x22:
				img.typ = 1 // 4:2:0
			default:
				return nil, fmt.Errorf("unsupported subsampling 0x%02x", seg[7])
			}
		case 0xC1, 0xC2, 0xC3:
			return nil, errors.New("only baseline JPEG supported")
		case 0xDD: // DRI
			return nil, errors.New("restart intervals not supported")
		case 0xDA: // SOS: scan data runs until EOI
			scan := data[i+2+segLen:]
			if len(scan) >= 2 && scan[len(scan)-2] == 0xFF && scan[len(scan)-1] == 0xD9 {
				scan = scan[:len(scan)-2]
			}
			img.scan = scan
			if len(img.scan) == 0 {
				return nil, errNoJPEGPayload
			}
			if img.width == 0 || img.height == 0 {
				return nil, errors.New("SOS before SOF0")
			}
			if img.width > 2040 || img.height > 2040 {
				return nil, fmt.Errorf("image %dx%d exceeds RFC 2435 limit", img.width, img.height)
			}
			img.quantLuma = quantTables[0]
			img.quantChrom = quantTables[1]
			if img.quantLuma == nil {
				return nil, errors.New("missing luma quantization table")
			}
			if img.quantChrom == nil {
				// Some encoders share one table
				img.quantChrom = img.quantLuma
			}
			return img, nil
		}

		i += 2 + segLen
	}

	return nil, errNoJPEGPayload
}
