package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReadsExactBuffer(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// a read may consume the final byte
	c := newCursor([]byte{0x12, 0x34, 0x56, 0x78})
	v16, err := c.readUint16("first")
	require.NoError(err)
	assert.Equal(uint16(0x1234), v16)

	b, err := c.readBytes(2, "second")
	require.NoError(err)
	assert.Equal([]byte{0x56, 0x78}, b)
	assert.Equal(0, c.remaining())

	// the very next read fails
	_, err = c.readUint8("third")
	assert.Error(err)
}

func TestCursorTruncation(t *testing.T) {
	assert := assert.New(t)

	c := newCursor([]byte{0x00, 0x01, 0x02})
	_, err := c.readUint32("value")

	var truncErr *TruncatedError
	assert.ErrorAs(err, &truncErr)
	assert.Equal(4, truncErr.Need)
	assert.Equal(3, truncErr.Left)
	assert.Contains(err.Error(), "value is either incorrect or data is truncated")

	// the failed read must not have advanced the cursor
	assert.Equal(3, c.remaining())
}

func TestCursorReadSized16(t *testing.T) {
	testCases := map[string]struct {
		buf      []byte
		want     []byte
		leftover int
		wantErr  bool
	}{
		"payload fills the buffer": {
			buf:  []byte{0x00, 0x03, 0xaa, 0xbb, 0xcc},
			want: []byte{0xaa, 0xbb, 0xcc},
		},
		"empty payload": {
			buf:      []byte{0x00, 0x00, 0xff},
			want:     []byte{},
			leftover: 1,
		},
		"missing prefix byte": {
			buf:     []byte{0x00},
			wantErr: true,
		},
		"prefix names more than left": {
			buf:     []byte{0x00, 0x04, 0xaa, 0xbb, 0xcc},
			wantErr: true,
		},
		"prefix names one byte too many": {
			buf:     []byte{0x00, 0x03, 0xaa, 0xbb},
			wantErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			c := newCursor(tc.buf)

			b, err := c.readSized16("field")
			if tc.wantErr {
				assert.Error(err)
				// failed reads leave the cursor in place
				assert.Equal(len(tc.buf), c.remaining())
				return
			}
			assert.NoError(err)
			assert.Equal(tc.want, append([]byte{}, b...))
			assert.Equal(tc.leftover, c.remaining())
		})
	}
}

func TestCursorSkip(t *testing.T) {
	assert := assert.New(t)

	c := newCursor(make([]byte, 17))
	assert.NoError(c.skip(17, "clockInfo"))
	assert.Error(c.skip(1, "firmwareVersion"))
}
