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

package dispatch

import "fmt"

// Class groups calls by how they are admitted into a block.
type Class uint8

const (
	ClassNormal      Class = 0
	ClassOperational Class = 1
	ClassMandatory   Class = 2
)

func (c Class) String() string {
	switch c {
	case ClassNormal:
		return "normal"
	case ClassOperational:
		return "operational"
	case ClassMandatory:
		return "mandatory"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Info describes the cost of dispatching a call.
type Info struct {
	Weight  uint64
	Class   Class
	PaysFee bool
}

// DefaultInfo is the info for a normal, fee-paying call with no weight.
func DefaultInfo() Info {
	return Info{Class: ClassNormal, PaysFee: true}
}

// PostInfo is the information known after a call has been dispatched.
type PostInfo struct {
	// ActualWeight is set when the call used less than its declared weight.
	ActualWeight *uint64
}

// CalcActualWeight returns the weight actually consumed by a dispatch.
func (p PostInfo) CalcActualWeight(info Info) uint64 {
	if p.ActualWeight == nil {
		return info.Weight
	}
	return min(*p.ActualWeight, info.Weight)
}

// Call is a dispatchable call.
type Call interface {
	// Dispatch executes the call from the provided origin.
	Dispatch(origin Origin) (PostInfo, error)
	// Info returns the declared dispatch info.
	Info() Info
}
