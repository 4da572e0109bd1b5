// Copyright 2025 Atelier Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitationStatusComputedAtRead(t *testing.T) {
	now := time.Now()
	accepted := now.Add(-time.Hour)

	tests := []struct {
		name        string
		expiresAt   time.Time
		acceptedAt  *time.Time
		wantPending bool
		wantExpired bool
	}{
		{"pending", now.Add(time.Hour), nil, true, false},
		{"expired", now.Add(-time.Minute), nil, false, true},
		{"exactly at expiry is expired", now, nil, false, true},
		{"accepted is neither", now.Add(time.Hour), &accepted, false, false},
		{"accepted past expiry is not expired", now.Add(-time.Hour), &accepted, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &WorkspaceInvitation{ExpiresAt: tt.expiresAt, AcceptedAt: tt.acceptedAt}
			assert.Equal(t, tt.wantPending, inv.Pending(now))
			assert.Equal(t, tt.wantExpired, inv.Expired(now))
		})
	}
}

// 同一邀请跨越过期点: 不落库, 状态只随时钟变化
func TestInvitationStatusFlipsWithClock(t *testing.T) {
	inv := &WorkspaceInvitation{ExpiresAt: time.Now().Add(time.Minute)}

	before := time.Now()
	assert.True(t, inv.Pending(before))

	after := inv.ExpiresAt.Add(time.Second)
	assert.False(t, inv.Pending(after))
	assert.True(t, inv.Expired(after))
}
