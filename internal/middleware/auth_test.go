package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Jaza/copernicus-api/pkg/randompkg"
	"github.com/Jaza/copernicus-api/pkg/tokenpkg"
	"github.com/Jaza/copernicus-api/pkg/web"
)

// addSignedClaims sets a bearer header with claims signed outside of any Maker.
func addSignedClaims(r *http.Request, secret string, claims jwt.MapClaims) error {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, "Bearer "+token)

	return nil
}

func TestAuthMiddleware(t *testing.T) {
	secret := randompkg.String(32)

	jwtMaker, err := tokenpkg.NewJWTMaker(secret)
	if err != nil {
		t.Fatalf("tokenpkg.NewJWTMaker returned error: %v", err)
	}

	pasetoMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker returned error: %v", err)
	}

	otherMaker, err := tokenpkg.NewJWTMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("tokenpkg.NewJWTMaker returned error: %v", err)
	}

	testCases := []struct {
		name           string
		tokenMaker     tokenpkg.Maker
		setupAuth      func(t *testing.T, r *http.Request, m tokenpkg.Maker) error
		wantStatusCode int
		wantError      string
	}{
		{
			name:       "NoAuthorization",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrAuthHeaderNotFound.Error(),
		},
		{
			name:       "InvalidAuthorizationHeader",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, m, "", "user", time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrBadAuthHeaderFormat.Error(),
		},
		{
			name:       "UnsupportedAuthorization",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, m, "basic", "user", time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrUnsupportedAuthType.Error(),
		},
		{
			name:       "ExpiredToken",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, m, AuthTypeBearer, "user", -time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrExpiredToken.Error(),
		},
		{
			name:       "ForeignSecret",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, otherMaker, AuthTypeBearer, "user", time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrInvalidToken.Error(),
		},
		{
			name:       "ExternalExpiredToken",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return addSignedClaims(r, secret, jwt.MapClaims{
					"sub": "user-1",
					"exp": time.Now().Add(-time.Hour).Unix(),
				})
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrExpiredToken.Error(),
		},
		{
			name:       "ExternalToken",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return addSignedClaims(r, secret, jwt.MapClaims{
					"sub": "user-1",
					"exp": time.Now().Add(time.Hour).Unix(),
				})
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "OK",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, m, AuthTypeBearer, "user", time.Minute)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "CapitalizedBearer",
			tokenMaker: jwtMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, m, "Bearer", "user", time.Minute)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:       "PasetoOK",
			tokenMaker: pasetoMaker,
			setupAuth: func(t *testing.T, r *http.Request, m tokenpkg.Maker) error {
				return AddAuthorization(r, m, AuthTypeBearer, "user", time.Minute)
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gin.SetMode(gin.TestMode)
			server := gin.New()

			authPath := "/auth"
			handler := func(c *gin.Context) {
				if _, ok := c.Get(AuthPayloadKey); !ok {
					t.Errorf("c.Get(%q) found nothing", AuthPayloadKey)
				}

				c.JSON(http.StatusOK, gin.H{})
			}
			server.GET(authPath, AuthMiddleware(tc.tokenMaker), handler)

			recorder := httptest.NewRecorder()

			request, err := http.NewRequest(http.MethodGet, authPath, nil)
			if err != nil {
				t.Fatalf("http.NewRequest returned error: %v", err)
			}

			if err = tc.setupAuth(t, request, tc.tokenMaker); err != nil {
				t.Fatalf("tc.setupAuth(t, %v) returned error: %v", request, err)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal",
					recorder.Code, tc.wantStatusCode)
			}

			got := web.Response{}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %v, tc.wantError = %v, want equal", got.Error, tc.wantError)
			}
		})
	}
}
