package main

import (
	"net"

	"github.com/pires/go-proxyproto"
)

// newListener opens a TCP listener on address. Behind HAProxy the PROXY
// protocol header is consumed so RemoteAddr reports the real client.
func newListener(address string, proxy bool) (net.Listener, error) {
	list, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	if !proxy {
		return list, nil
	}
	return &proxyproto.Listener{Listener: list}, nil
}
