package types

import (
	"fmt"
	"strconv"
	"strings"

	sockaddr "github.com/hashicorp/go-sockaddr"

	"github.com/dotconf/confiture/tree"
)

// IPVersion restricts an address/network type to IPv4, IPv6, or either.
type IPVersion int

const (
	AnyVersion IPVersion = 0
	IPv4       IPVersion = 4
	IPv6       IPVersion = 6
)

// IPAddress validates a textual IPv4 or IPv6 address using
// hashicorp/go-sockaddr (wired from the nomad example, replacing the
// source's "ipaddr" Python dependency) and returns a sockaddr.IPAddr
// handle rather than a scalar payload.
type IPAddress struct {
	baseType
	Version IPVersion
}

func (t IPAddress) ipAddrOf(p tree.Payload) (sockaddr.IPAddr, error) {
	s, err := (String{}).Validate(p)
	if err != nil {
		return nil, err
	}
	addr, err := sockaddr.NewIPAddr(s.Str())
	if err != nil {
		return nil, err
	}
	if err := checkVersion(addr, t.Version); err != nil {
		return nil, err
	}
	return addr, nil
}

func (t IPAddress) Validate(p tree.Payload) (tree.Payload, error) {
	addr, err := t.ipAddrOf(p)
	if err != nil {
		return tree.Payload{}, err
	}
	return tree.String(addr.String()), nil
}

func (IPAddress) Cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }

// IPAddressOf exposes the typed sockaddr.IPAddr for callers that need more
// than the string form Validate returns.
func (t IPAddress) IPAddressOf(p tree.Payload) (sockaddr.IPAddr, error) { return t.ipAddrOf(p) }

func checkVersion(addr sockaddr.IPAddr, version IPVersion) error {
	switch version {
	case IPv4:
		if _, ok := addr.(sockaddr.IPv4Addr); !ok {
			return fmt.Errorf("%q does not appear to be an IPv4 address", addr.String())
		}
	case IPv6:
		if _, ok := addr.(sockaddr.IPv6Addr); !ok {
			return fmt.Errorf("%q does not appear to be an IPv6 address", addr.String())
		}
	}
	return nil
}

// IPNetwork validates a textual CIDR network (e.g. "10.0.0.0/8").
type IPNetwork struct {
	baseType
	Version IPVersion
}

func (t IPNetwork) Validate(p tree.Payload) (tree.Payload, error) {
	s, err := (String{}).Validate(p)
	if err != nil {
		return tree.Payload{}, err
	}
	if !strings.Contains(s.Str(), "/") {
		return tree.Payload{}, fmt.Errorf("%q does not appear to be a network (missing /bits)", s.Str())
	}
	addr, err := sockaddr.NewIPAddr(s.Str())
	if err != nil {
		return tree.Payload{}, err
	}
	if err := checkVersion(addr, t.Version); err != nil {
		return tree.Payload{}, err
	}
	return tree.String(addr.NetworkAddress().String()), nil
}

func (IPNetwork) Cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }

// IPSocketAddress validates an "<addr>:<port>" pair, each half
// defaultable, and returns an (address, port) pair.
type IPSocketAddress struct {
	baseType
	DefaultAddr string
	DefaultPort *int
	Version     IPVersion
}

// SocketAddress is the (address, port) result IPSocketAddress produces.
type SocketAddress struct {
	Addr sockaddr.IPAddr
	Port int
}

func (a SocketAddress) String() string {
	return fmt.Sprintf("%s:%d", a.Addr.String(), a.Port)
}

func (t IPSocketAddress) socketOf(p tree.Payload) (SocketAddress, error) {
	s, err := (String{}).Validate(p)
	if err != nil {
		return SocketAddress{}, err
	}
	rawAddr, rawPort, _ := strings.Cut(s.Str(), ":")
	if rawAddr == "" {
		rawAddr = t.DefaultAddr
		if rawAddr == "" {
			rawAddr = "127.0.0.1"
		}
	}
	if rawPort == "" {
		if t.DefaultPort == nil {
			return SocketAddress{}, fmt.Errorf("you must specify a port")
		}
		rawPort = strconv.Itoa(*t.DefaultPort)
	}
	addr, err := sockaddr.NewIPAddr(rawAddr)
	if err != nil {
		return SocketAddress{}, err
	}
	if err := checkVersion(addr, t.Version); err != nil {
		return SocketAddress{}, err
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return SocketAddress{}, fmt.Errorf("%q is not a port (not an integer)", rawPort)
	}
	if port < 1 || port > 65535 {
		return SocketAddress{}, fmt.Errorf("%d is not a port (not in 1 - 65535 range)", port)
	}
	return SocketAddress{Addr: addr, Port: port}, nil
}

func (t IPSocketAddress) Validate(p tree.Payload) (tree.Payload, error) {
	sock, err := t.socketOf(p)
	if err != nil {
		return tree.Payload{}, err
	}
	return tree.String(sock.String()), nil
}

func (IPSocketAddress) Cast(raw string) (tree.Payload, error) { return tree.String(raw), nil }

// SocketAddressOf exposes the typed (address, port) pair.
func (t IPSocketAddress) SocketAddressOf(p tree.Payload) (SocketAddress, error) {
	return t.socketOf(p)
}
