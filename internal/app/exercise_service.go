package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var ErrInvalidExercise = errors.New("invalid exercise token")

// ExerciseService signs predefined exercises so an instructor can hand the same
// pair of numbers to several learners.
type ExerciseService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewExerciseService(secret, issuer string, ttl time.Duration) *ExerciseService {
	return &ExerciseService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token carrying both operands.
func (s *ExerciseService) Issue(number1, number2 int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("exercise service is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("exercise config is incomplete")
	}
	if number1 < 0 || number2 < 0 {
		return "", fmt.Errorf("operands must not be negative")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"n1":  number1,
		"n2":  number2,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Parse validates tokenString and yields the predefined configuration it carries.
func (s *ExerciseService) Parse(tokenString string) (StartConfig, error) {
	if s == nil || s.secret == "" {
		return StartConfig{}, fmt.Errorf("exercise config is incomplete")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return StartConfig{}, fmt.Errorf("%w: %v", ErrInvalidExercise, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return StartConfig{}, ErrInvalidExercise
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return StartConfig{}, fmt.Errorf("%w: unexpected issuer", ErrInvalidExercise)
	}

	n1, ok1 := intClaim(claims, "n1")
	n2, ok2 := intClaim(claims, "n2")
	if !ok1 || !ok2 {
		return StartConfig{}, fmt.Errorf("%w: missing operands", ErrInvalidExercise)
	}
	return Predefined(n1, n2), nil
}

// JSON numbers decode as float64 in MapClaims.
func intClaim(claims jwt.MapClaims, name string) (int, bool) {
	v, ok := claims[name].(float64)
	if !ok || v < 0 {
		return 0, false
	}
	return int(v), true
}
