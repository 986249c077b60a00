package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// APIKeyPrefix marks service account api keys so leaked credentials
// can be recognized in logs and scanners
const APIKeyPrefix = "rcsa_"

// AccessTokenPrefix marks opaque access tokens
const AccessTokenPrefix = "rct_"

type RandomTokenType string

func tokenTypeFromString(token string) RandomTokenType {
	if token == "" {
		panic("zero length token issued, this is probably the only reason to ever panic")
	}
	return RandomTokenType(token)
}

type RandomTokenGenerator struct{}

// CreateSigninCode returns an 8 digit one-time code
func (*RandomTokenGenerator) CreateSigninCode() RandomTokenType {
	num := genRandNum(0, 99999999)
	return tokenTypeFromString(fmt.Sprintf("%08d", num))
}

// CreateAPIKey returns a prefixed 256 bit hex api key
func (*RandomTokenGenerator) CreateAPIKey() RandomTokenType {
	return tokenTypeFromString(APIKeyPrefix + randomHex(32))
}

// CreateAccessToken returns a prefixed 256 bit hex bearer token
func (*RandomTokenGenerator) CreateAccessToken() RandomTokenType {
	return tokenTypeFromString(AccessTokenPrefix + randomHex(32))
}

// CreateSecureTokenWithSize returns a hex token of the given byte size
func (*RandomTokenGenerator) CreateSecureTokenWithSize(size int) RandomTokenType {
	return tokenTypeFromString(randomHex(size))
}

func randomHex(size int) string {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err.Error()) // rand should never fail
	}
	return hex.EncodeToString(b)
}

func genRandNum(min, max int64) int64 {
	bg := big.NewInt(max - min)
	n, err := rand.Int(rand.Reader, bg)
	if err != nil {
		panic(err)
	}
	return n.Int64() + min
}

func New() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}
