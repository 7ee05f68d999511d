package redisclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raniellyferreira/redis-wire-client/internal/testserver"
)

func TestParseMasterRole(t *testing.T) {
	reply := testserver.Array(
		testserver.Bulk("master"),
		testserver.Int(3129659),
		testserver.Array(
			testserver.Array(testserver.Bulk("127.0.0.1"), testserver.Bulk("9001"), testserver.Bulk("3129242")),
			testserver.Array(testserver.Bulk("127.0.0.1"), testserver.Bulk("9002"), testserver.Bulk("3129543")),
		),
	)

	role, err := parseRole(reply)
	require.NoError(t, err)

	assert.Equal(t, RoleMaster, role.Kind)
	assert.Equal(t, int64(3129659), role.ReplOffset)
	require.Len(t, role.Replicas, 2)
	assert.Equal(t, ReplicaInfo{Host: "127.0.0.1", Port: 9001, ReplOffset: 3129242}, role.Replicas[0])
	assert.Equal(t, ReplicaInfo{Host: "127.0.0.1", Port: 9002, ReplOffset: 3129543}, role.Replicas[1])
}

func TestParseReplicaRole(t *testing.T) {
	reply := testserver.ReplicaRole("192.168.1.128", 9000, "connected", 3167038)

	role, err := parseRole(reply)
	require.NoError(t, err)

	assert.Equal(t, RoleReplica, role.Kind)
	assert.Equal(t, "192.168.1.128", role.MasterHost)
	assert.Equal(t, 9000, role.MasterPort)
	assert.Equal(t, "connected", role.State)
	assert.Equal(t, int64(3167038), role.ReplOffset)
}

func TestParseSentinelRole(t *testing.T) {
	reply := testserver.Array(
		testserver.Bulk("sentinel"),
		testserver.Array(testserver.Bulk("resque-master"), testserver.Bulk("cache-master")),
	)

	role, err := parseRole(reply)
	require.NoError(t, err)

	assert.Equal(t, RoleSentinel, role.Kind)
	assert.Equal(t, []string{"resque-master", "cache-master"}, role.Services)
}

func TestParseRoleRejectsMalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply func() (err error)
	}{
		{"not an array", func() error {
			_, err := parseRole(testserver.Bulk("master"))
			return err
		}},
		{"empty array", func() error {
			_, err := parseRole(testserver.Array())
			return err
		}},
		{"unknown kind", func() error {
			_, err := parseRole(testserver.Array(testserver.Bulk("observer")))
			return err
		}},
		{"truncated master", func() error {
			_, err := parseRole(testserver.Array(testserver.Bulk("master"), testserver.Int(1)))
			return err
		}},
		{"truncated replica", func() error {
			_, err := parseRole(testserver.Array(testserver.Bulk("slave"), testserver.Bulk("h")))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reply()
			var protoErr *ProtocolError
			assert.ErrorAs(t, err, &protoErr)
		})
	}
}
