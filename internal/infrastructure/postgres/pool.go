package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/estomatologia-api/pkg/config"
)

// NewPool abre el pool de PostgreSQL del backend y verifica la conexión.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// PoolConfig traduce DBConfig a la configuración de pgxpool: DSN, tamaño del pool y,
// con ForceIPv4, un dialer que conecta solo por IPv4. El host del DSN no se reescribe,
// así TLS sigue validando el nombre original.
func PoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		poolConfig.MinConns = poolConfig.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = time.Minute

	if cfg.ForceIPv4 {
		resolvers := []*net.Resolver{net.DefaultResolver}
		if cfg.DNSFallback != "" {
			resolvers = append(resolvers, fallbackResolver(cfg.DNSFallback))
		}
		poolConfig.ConnConfig.DialFunc = ipv4Dialer(resolvers)
	}
	return poolConfig, nil
}

// ipv4Dialer conecta a la primera dirección IPv4 que devuelva alguno de los resolvers.
func ipv4Dialer(resolvers []*net.Resolver) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}
		ip, err := lookupIPv4(ctx, host, resolvers...)
		if err != nil {
			return nil, fmt.Errorf("resolver %s: %w", host, err)
		}
		var d net.Dialer
		return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
}

var errNoIPv4 = errors.New("sin dirección IPv4")

func lookupIPv4(ctx context.Context, host string, resolvers ...*net.Resolver) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return ip.String(), nil
		}
		return "", errNoIPv4
	}
	err := errNoIPv4
	for _, r := range resolvers {
		var ips []net.IP
		ips, err = r.LookupIP(ctx, "ip4", host)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			if ip.To4() != nil {
				return ip.String(), nil
			}
		}
		err = errNoIPv4
	}
	return "", err
}

func fallbackResolver(server string) *net.Resolver {
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, server)
		},
	}
}
