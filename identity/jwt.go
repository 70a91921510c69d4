// Package identity verifies the signed identity tokens minted by the
// external identity provider. The rest of the system never sees a raw
// token; handlers consume the pre-validated Identity from the request
// context.
package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"event-tickets-backend/model"

	"github.com/dgrijalva/jwt-go"
)

const validationErrorExpired = "Token is expired"

// CertsAPIEndpoint serves the provider's current signing certificates,
// keyed by kid. Package-level so tests can point it at a local server.
var CertsAPIEndpoint = ""

// VerifyIDToken validates an RS256 identity token against the provider's
// published certificates and maps its claims to a caller identity.
// Tokens expired by no more than interval are still accepted so briefly
// offline scanners keep working.
func VerifyIDToken(t, issuer, audience string, interval time.Duration) (*model.Identity, bool) {
	parsed, err := jwt.Parse(t, func(t *jwt.Token) (interface{}, error) {
		cert, err := certificateFromToken(t)
		if err != nil {
			return "", err
		}
		return readPublicKey(cert)
	})

	if err != nil && err.Error() == validationErrorExpired {
		claims, valid := parsed.Claims.(jwt.MapClaims)
		if !valid {
			return nil, false
		}
		if withinInterval(claims, interval) {
			return identityFromClaims(claims, issuer, audience)
		}
		return nil, false
	}

	if err != nil || !parsed.Valid {
		return nil, false
	}

	if parsed.Header["alg"] != "RS256" {
		return nil, false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return identityFromClaims(claims, issuer, audience)
}

func identityFromClaims(claims jwt.MapClaims, issuer, audience string) (*model.Identity, bool) {
	if iss, _ := claims["iss"].(string); iss != issuer {
		return nil, false
	}
	if aud, _ := claims["aud"].(string); audience != "" && aud != audience {
		return nil, false
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, false
	}
	email, _ := claims["email"].(string)
	groups := groupsFromClaims(claims)

	role := model.RoleUser
	for _, g := range groups {
		if g == "admin" {
			role = model.RoleAdmin
			break
		}
		if g == "greeter" {
			role = model.RoleGreeter
		}
	}

	return &model.Identity{UserID: sub, Email: email, Role: role, Groups: groups}, true
}

func groupsFromClaims(claims jwt.MapClaims) []string {
	var groups []string
	switch v := claims["groups"].(type) {
	case []interface{}:
		for _, g := range v {
			if s, ok := g.(string); ok {
				groups = append(groups, s)
			}
		}
	case string:
		for _, g := range strings.Split(v, ",") {
			if g != "" {
				groups = append(groups, g)
			}
		}
	}
	return groups
}

func withinInterval(claims jwt.MapClaims, interval time.Duration) bool {
	var ok bool
	switch exp := claims["exp"].(type) {
	case float64:
		t1 := time.Unix(int64(exp), 0)
		t2 := time.Now().Add(interval * -1)
		ok = t2.Before(t1)
	case json.Number:
		v, _ := exp.Int64()
		t1 := time.Unix(v, 0)
		t2 := time.Now().Add(interval * -1)
		ok = t2.Before(t1)
	}
	return ok
}

func certificates() (map[string]string, error) {
	res, err := http.Get(CertsAPIEndpoint)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var certs map[string]string
	json.Unmarshal(data, &certs)
	return certs, nil
}

func certificateFromToken(token *jwt.Token) ([]byte, error) {
	kid, ok := token.Header["kid"]
	if !ok {
		return nil, errors.New("kid not found")
	}
	kidString, ok := kid.(string)
	if !ok {
		return nil, errors.New("kid cast error to string")
	}

	certs, err := certificates()
	if err != nil {
		return nil, err
	}
	return []byte(certs[kidString]), nil
}

func readPublicKey(cert []byte) (*rsa.PublicKey, error) {
	publicKeyBlock, _ := pem.Decode(cert)
	if publicKeyBlock == nil {
		return nil, errors.New("invalid public key data")
	}
	if publicKeyBlock.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("invalid public key type: %s", publicKeyBlock.Type)
	}

	c, err := x509.ParseCertificate(publicKeyBlock.Bytes)
	if err != nil {
		return nil, err
	}

	publicKey, ok := c.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not RSA public key")
	}
	return publicKey, nil
}
