// tokengen emite credenciales para los clientes de la API.
//
// Uso:
//
//	go run ./cmd/tokengen -sub formulario-altotonga -clave VZIM000230 -role hospital
//	go run ./cmd/tokengen -sub tablero -role admin
//	go run ./cmd/tokengen -hash "token-estatico"   # valor para API_TOKEN_HASH
//
// JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION_MINUTES se leen de la misma configuración que la API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/estomatologia-api/internal/application/auth"
	"github.com/jhoicas/estomatologia-api/pkg/config"
	"github.com/jhoicas/estomatologia-api/pkg/jwt"
)

func main() {
	subject := flag.String("sub", "", "identificador del cliente (formulario o tablero)")
	clave := flag.String("clave", "", "clave del hospital del formulario (opcional)")
	role := flag.String("role", jwt.RoleHospital, "rol: hospital | admin")
	expMin := flag.Int("exp", -1, "minutos de vigencia; 0 = sin vencimiento; -1 = JWT_EXPIRATION_MINUTES")
	hash := flag.String("hash", "", "imprime el hash bcrypt de este token estático y termina")
	flag.Parse()

	if *hash != "" {
		h, err := auth.HashToken(*hash, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Hash: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(h)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	exp := cfg.Auth.Expiration
	if *expMin >= 0 {
		exp = *expMin
	}
	gate := auth.NewGate(auth.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		ExpMinutes: exp,
	})
	tok, err := gate.IssueToken(*subject, *clave, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Emitir token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
