package gcs

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SignedURL builds a V2-signed PUT URL so browsers can upload review images
// directly to the bucket without routing bytes through this service.
// Requires service-account credentials; the metadata token source cannot sign.
func (c *Client) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if c == nil {
		return "", errors.New("gcs client not initialized")
	}
	if c.serviceAccount == nil || c.serviceAccount.privateKey == nil {
		return "", errors.New("signed urls require service account credentials")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return "", errors.New("gcs bucket is required")
	}
	if object == "" {
		return "", errors.New("object name is required")
	}
	if expires <= 0 {
		return "", errors.New("expiry must be positive")
	}

	expiry := time.Now().Add(expires).Unix()
	resource := "/" + bucket + "/" + object
	stringToSign := strings.Join([]string{
		"PUT",
		"", // content MD5, unused
		contentType,
		fmt.Sprintf("%d", expiry),
		resource,
	}, "\n")

	hash := sha256.Sum256([]byte(stringToSign))
	signature, err := rsa.SignPKCS1v15(rand.Reader, c.serviceAccount.privateKey, crypto.SHA256, hash[:])
	if err != nil {
		return "", fmt.Errorf("signing url: %w", err)
	}

	query := url.Values{}
	query.Set("GoogleAccessId", c.serviceAccount.clientEmail)
	query.Set("Expires", fmt.Sprintf("%d", expiry))
	query.Set("Signature", base64.StdEncoding.EncodeToString(signature))

	return fmt.Sprintf("%s%s?%s", c.apiBase, resource, query.Encode()), nil
}

func buildJWTAssertion(email string, key *rsa.PrivateKey, tokenURI string) (string, error) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	now := time.Now()
	claims := map[string]any{
		"iss":   email,
		"scope": scope,
		"aud":   tokenURI,
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	unsigned := header + "." + payload

	hash := sha256.Sum256([]byte(unsigned))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}
