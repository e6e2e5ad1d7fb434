// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package equeue

import "github.com/rs/zerolog"

// Logger returns the structured logger installed via
// [Builder.WithLogger], or a no-op logger if none was configured.
func (q *Queue) Logger() zerolog.Logger {
	return q.logger
}
