// Copryright (C) 2019 Yawning Angel
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package generic

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/oxicrypt.git/internal/api"
)

func TestTables(t *testing.T) {
	require := require.New(t)

	require.EqualValues(0x63, sbox0[0x00], "sbox0[0x00]")
	require.EqualValues(0x7c, sbox0[0x01], "sbox0[0x01]")
	require.EqualValues(0x16, sbox0[0xff], "sbox0[0xff]")
	for i := 0; i < 256; i++ {
		require.EqualValues(i, sbox1[sbox0[i]], "sbox1[sbox0[%d]]", i)
	}

	require.Equal(uint32(0xc66363a5), te0[0], "te0[0]")
	require.Equal(uint32(0x51f4a750), td0[0], "td0[0]")
	require.Equal([]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}, powx[:10], "powx")

	require.Equal(uint32(0xc1), mul(0x57, 0x83), "mul(0x57, 0x83)")
}

func TestAES(t *testing.T) {
	require := require.New(t)

	require.Equal("generic", AES.Name(), "Name()")

	// FIPS-197 Appendix B.
	k := AES.New(10)
	key, _ := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	src, _ := hex.DecodeString("3243f6a8885a308d313198a2e0370734")

	sched := make([]byte, api.ScheduleSize(10))
	k.ExpandKey(sched, key)
	require.Equal("d014f9a8c9ee2589e13f0cc8b6630ca6", hex.EncodeToString(sched[160:]), "ExpandKey()")

	dst := make([]byte, api.BlockSize)
	k.Encrypt1(sched, dst, src)
	require.Equal("3925841d02dc09fbdc118597196a0b32", hex.EncodeToString(dst), "Encrypt1()")

	k.InvertKey(sched)
	k.Decrypt1(sched, dst, dst)
	require.Equal(src, dst, "Decrypt1()")
}

func TestDigest(t *testing.T) {
	require := require.New(t)

	require.Equal("generic", Digest.Name(), "Name()")

	// "abc", padded to one block.
	var block [64]byte
	copy(block[:], "abc\x80")
	block[63] = 24

	h := [8]uint32{0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19}
	Digest.SHA256(&h, block[:])
	require.Equal([8]uint32{
		0xba7816bf, 0x8f01cfea, 0x414140de, 0x5dae2223, 0xb00361a3, 0x96177a9c, 0xb410ff61, 0xf20015ad,
	}, h, "SHA256()")

	h1 := [8]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0}
	Digest.SHA1(&h1, block[:])
	require.Equal([8]uint32{0xa9993e36, 0x4706816a, 0xba3e2571, 0x7850c26c, 0x9cd0d89d}, h1, "SHA1()")

	// MD5 stores the bit length little endian.
	block[63], block[56] = 0, 24
	hm := [8]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476}
	Digest.MD5(&hm, block[:])
	require.Equal([8]uint32{0x98500190, 0xb04fd23c, 0x7d3f96d6, 0x727fe128}, hm, "MD5()")

	// A zero length call is a no-op.
	before := h
	Digest.SHA256(&h, nil)
	require.Equal(before, h, "SHA256(nil)")
}
