// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashing

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Multihash wraps a digest produced by h in a self-describing multihash.
func Multihash(h Hasher, d Digest) (multihash.Multihash, error) {
	return multihash.Encode(d[:], h.MultihashCode())
}

// CID returns a CIDv1 with the "raw" multicodec for a digest produced by h.
func CID(h Hasher, d Digest) (cid.Cid, error) {
	mh, err := Multihash(h, d)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// DigestFromCID extracts the digest and the hasher that produced it from a CID.
func DigestFromCID(c cid.Cid) (Hasher, Digest, error) {
	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return nil, Digest{}, err
	}
	for _, h := range []Hasher{BlakeTwo256, Keccak256, Blake3} {
		if h.MultihashCode() == decoded.Code {
			if len(decoded.Digest) != DigestSize {
				break
			}
			return h, NewDigest(decoded.Digest), nil
		}
	}
	return nil, Digest{}, multihash.ErrUnknownCode
}
