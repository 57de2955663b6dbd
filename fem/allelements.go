// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	// subpackages: import all elements to register them in the factory
	_ "github.com/finsberg/pulse-adjoint/ele/solid"
)
