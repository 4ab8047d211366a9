package thirdvm

// MaxExtend bounds how far a single write may grow the live image beyond
// its current length. A write address further out than
// live+MaxExtend fails with IllegalAddressError, matching the reference
// VM's bump-allocation discipline (HERE only ever advances by small,
// bounded amounts during normal operation).
const MaxExtend = 64

// Fixed-address cells, per spec.md §3.
const (
	AddrLatest     uint32 = 0
	AddrBase       uint32 = 4
	AddrState      uint32 = 8
	AddrHere       uint32 = 12
	AddrWordBuffer uint32 = 16
	WordBufferSize uint32 = 32
	InitialHere    uint32 = 48
)

// Image is the linear byte-addressed data store backing the dictionary,
// compiled code, user data, and the fixed-address control cells. It grows
// monotonically via bump allocation; nothing is ever freed.
type Image struct {
	bytes []byte
}

// NewImage returns an Image with the reserved low region zeroed and HERE
// initialized past it, and BASE initialized to 10, per spec.md §3.
func NewImage() *Image {
	img := &Image{bytes: make([]byte, InitialHere)}
	// The reserved region is already live, so seed the cells directly
	// without going through WriteU32's checks.
	img.putU32(AddrBase, 10)
	img.putU32(AddrHere, InitialHere)
	return img
}

// Size returns the live length of the image.
func (img *Image) Size() uint32 { return uint32(len(img.bytes)) }

func (img *Image) putU32(addr, v uint32) {
	b := img.bytes[addr : addr+4]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// ReadU8 reads one byte at addr, failing if addr is outside the live image.
func (img *Image) ReadU8(addr uint32) (byte, error) {
	if uint64(addr) >= uint64(len(img.bytes)) {
		return 0, IllegalAddressError{addr}
	}
	return img.bytes[addr], nil
}

// ReadU32 reads a little-endian 32-bit cell at addr, failing if addr is
// unaligned or addr+3 is outside the live image.
func (img *Image) ReadU32(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, UnalignedAccessError{addr}
	}
	if uint64(addr)+4 > uint64(len(img.bytes)) {
		return 0, IllegalAddressError{addr}
	}
	b := img.bytes[addr : addr+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// WriteU8 writes one byte at addr, extending the image with zero bytes if
// addr is within MaxExtend of the current live length, else failing.
func (img *Image) WriteU8(addr uint32, v byte) error {
	if err := img.grow(addr, 1); err != nil {
		return err
	}
	img.bytes[addr] = v
	return nil
}

// WriteU32 writes a little-endian 32-bit cell at addr, extending the image
// as WriteU8 does, failing on unaligned addr.
func (img *Image) WriteU32(addr, v uint32) error {
	if addr%4 != 0 {
		return UnalignedAccessError{addr}
	}
	if err := img.grow(addr, 4); err != nil {
		return err
	}
	img.putU32(addr, v)
	return nil
}

// grow extends the image with zero bytes so that [addr, addr+n) is live,
// refusing to extend past MaxExtend bytes beyond the current length.
func (img *Image) grow(addr uint32, n uint32) error {
	end := uint64(addr) + uint64(n)
	size := uint64(len(img.bytes))
	if end <= size {
		return nil
	}
	if end > size+MaxExtend {
		return IllegalAddressError{addr}
	}
	img.bytes = append(img.bytes, make([]byte, end-size)...)
	return nil
}

// Here returns the current bump pointer.
func (img *Image) Here() (uint32, error) { return img.ReadU32(AddrHere) }

// WriteU8Here writes v at HERE and advances HERE by 1.
func (img *Image) WriteU8Here(v byte) error {
	here, err := img.Here()
	if err != nil {
		return err
	}
	if err := img.WriteU8(here, v); err != nil {
		return err
	}
	return img.WriteU32(AddrHere, here+1)
}

// WriteU32Here writes v at HERE and advances HERE by 4.
func (img *Image) WriteU32Here(v uint32) error {
	here, err := img.Here()
	if err != nil {
		return err
	}
	if err := img.WriteU32(here, v); err != nil {
		return err
	}
	return img.WriteU32(AddrHere, here+4)
}

// Align rounds HERE up to the next multiple of 4.
func (img *Image) Align() error {
	here, err := img.Here()
	if err != nil {
		return err
	}
	aligned := (here + 3) &^ 3
	if aligned == here {
		return nil
	}
	return img.WriteU32(AddrHere, aligned)
}

// LoadBytes copies len(buf) bytes starting at addr into buf, failing if any
// byte is outside the live image.
func (img *Image) LoadBytes(addr uint32, buf []byte) error {
	for i := range buf {
		b, err := img.ReadU8(addr + uint32(i))
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

// StoreBytes writes buf starting at addr, extending the image as WriteU8
// does for each byte written.
func (img *Image) StoreBytes(addr uint32, buf []byte) error {
	for i, b := range buf {
		if err := img.WriteU8(addr+uint32(i), b); err != nil {
			return err
		}
	}
	return nil
}
