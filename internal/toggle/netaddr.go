package toggle

import (
	"net"
	"os"
)

const unknownAddr = "unknown"

// LocalIPv4 returns the first IPv4 address the host name resolves to, or
// "unknown". The result is informational only.
func LocalIPv4() string {
	host, err := os.Hostname()
	if err != nil {
		return unknownAddr
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return unknownAddr
	}
	return firstIPv4(ips)
}

func firstIPv4(ips []net.IP) string {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return unknownAddr
}

func listenPort(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}
