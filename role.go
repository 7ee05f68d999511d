package redisclient

import (
	"fmt"
	"strconv"

	"github.com/raniellyferreira/redis-wire-client/protocol"
)

// RoleKind is a server's replication position.
type RoleKind string

const (
	RoleMaster   RoleKind = "master"
	RoleReplica  RoleKind = "slave"
	RoleSentinel RoleKind = "sentinel"
)

// ReplicaInfo describes one replica attached to a master.
type ReplicaInfo struct {
	Host       string
	Port       int
	ReplOffset int64
}

// Role is the decoded reply of the ROLE command.
type Role struct {
	Kind RoleKind

	// ReplOffset is the master replication offset, or the replica's
	// processed offset depending on Kind
	ReplOffset int64

	// Replicas is populated for masters
	Replicas []ReplicaInfo

	// MasterHost, MasterPort and State are populated for replicas
	MasterHost string
	MasterPort int
	State      string

	// Services is populated for sentinels: the monitored master names
	Services []string
}

// parseRole decodes a ROLE reply array into a Role.
func parseRole(v protocol.Value) (Role, error) {
	if v.Type != protocol.TypeArray || len(v.Array) == 0 {
		return Role{}, &ProtocolError{Message: "ROLE reply is not a non-empty array"}
	}

	kind := RoleKind(v.Array[0].String())
	switch kind {
	case RoleMaster:
		return parseMasterRole(v.Array)
	case RoleReplica:
		return parseReplicaRole(v.Array)
	case RoleSentinel:
		return parseSentinelRole(v.Array)
	default:
		return Role{}, &ProtocolError{Message: fmt.Sprintf("unknown role %q", kind)}
	}
}

// parseMasterRole decodes ["master", offset, [[host, port, offset], ...]]
func parseMasterRole(elems []protocol.Value) (Role, error) {
	if len(elems) < 3 {
		return Role{}, &ProtocolError{Message: "master ROLE reply too short"}
	}

	role := Role{
		Kind:       RoleMaster,
		ReplOffset: elems[1].Int(),
	}

	for _, rv := range elems[2].Array {
		if len(rv.Array) < 3 {
			return Role{}, &ProtocolError{Message: "malformed replica entry in ROLE reply"}
		}
		port, err := strconv.Atoi(rv.Array[1].String())
		if err != nil {
			return Role{}, &ProtocolError{Message: "malformed replica port in ROLE reply", Err: err}
		}
		offset, err := strconv.ParseInt(rv.Array[2].String(), 10, 64)
		if err != nil {
			return Role{}, &ProtocolError{Message: "malformed replica offset in ROLE reply", Err: err}
		}
		role.Replicas = append(role.Replicas, ReplicaInfo{
			Host:       rv.Array[0].String(),
			Port:       port,
			ReplOffset: offset,
		})
	}

	return role, nil
}

// parseReplicaRole decodes ["slave", masterHost, masterPort, state, offset]
func parseReplicaRole(elems []protocol.Value) (Role, error) {
	if len(elems) < 5 {
		return Role{}, &ProtocolError{Message: "replica ROLE reply too short"}
	}

	port := int(elems[2].Int())
	if elems[2].Type == protocol.TypeBulkString {
		p, err := strconv.Atoi(elems[2].String())
		if err != nil {
			return Role{}, &ProtocolError{Message: "malformed master port in ROLE reply", Err: err}
		}
		port = p
	}

	return Role{
		Kind:       RoleReplica,
		MasterHost: elems[1].String(),
		MasterPort: port,
		State:      elems[3].String(),
		ReplOffset: elems[4].Int(),
	}, nil
}

// parseSentinelRole decodes ["sentinel", [service, ...]]
func parseSentinelRole(elems []protocol.Value) (Role, error) {
	role := Role{Kind: RoleSentinel}
	if len(elems) > 1 {
		for _, sv := range elems[1].Array {
			role.Services = append(role.Services, sv.String())
		}
	}
	return role, nil
}
