package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/filmes/internal/config"
	"github.com/user/filmes/internal/model"
	"github.com/user/filmes/internal/repository"
	"github.com/user/filmes/internal/testutil"
	"github.com/user/filmes/internal/utils"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		MoviesCacheTTL: 0,
		RefCacheSize:   16,
		RefCacheTTL:    time.Minute,
	}
}

func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h, err := NewHandler(repository.NewRepositories(db), testConfig(), zerolog.Nop())
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/movies", h.ListMovies)
	r.POST("/movies", h.CreateMovie)
	r.PUT("/movies/:id", h.UpdateMovie)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var res utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func avatarBody(title string) gin.H {
	return gin.H{
		"title":        title,
		"genre_id":     testutil.GenreSciFi,
		"language_id":  testutil.LanguageEN,
		"oscar_count":  3,
		"release_date": "2009-12-18",
	}
}

func TestListMovies_SortedWithRelations(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)

	testutil.SeedMovie(t, db, "Titanic", 11, testutil.Date(1997, time.December, 19))
	testutil.SeedMovie(t, db, "Avatar", 3, testutil.Date(2009, time.December, 18))

	w := doJSON(r, http.MethodGet, "/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var movies []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movies))
	require.Len(t, movies, 2)

	assert.Equal(t, "Avatar", movies[0]["title"])
	assert.Equal(t, "Titanic", movies[1]["title"])

	genre, ok := movies[0]["genres"].(map[string]interface{})
	require.True(t, ok, "genres should be an object")
	assert.Equal(t, "Ficção Científica", genre["name"])

	language, ok := movies[0]["language"].(map[string]interface{})
	require.True(t, ok, "language should be an object")
	assert.Equal(t, "Inglês", language["name"])

	for _, key := range []string{"id", "genre_id", "language_id", "oscar_count", "release_date"} {
		assert.Contains(t, movies[0], key)
	}
}

func TestListMovies_EmptyArray(t *testing.T) {
	r := newTestRouter(t, testutil.SetupDB(t))

	w := doJSON(r, http.MethodGet, "/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateMovie_Created(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)

	w := doJSON(r, http.MethodPost, "/movies", avatarBody("Avatar"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(r, http.MethodGet, "/movies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var movies []model.Movie
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Avatar", movies[0].Title)
	assert.Equal(t, 3, movies[0].OscarCount)
	require.NotNil(t, movies[0].ReleaseDate)
	assert.True(t, testutil.Date(2009, time.December, 18).Equal(*movies[0].ReleaseDate))
}

func TestCreateMovie_DuplicateTitleConflict(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	testutil.SeedMovie(t, db, "Avatar", 3, nil)

	w := doJSON(r, http.MethodPost, "/movies", avatarBody("AVATAR"))
	require.Equal(t, http.StatusConflict, w.Code)

	res := decodeError(t, w)
	assert.Equal(t, "já existe um filme cadastrado com esse titulo", res.Message)
	assert.Equal(t, utils.CodeDuplicateTitle, res.Code)

	var count int64
	require.NoError(t, db.Model(&model.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateMovie_BadRequests(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)

	noTitle := avatarBody("")
	badDate := avatarBody("Avatar")
	badDate["release_date"] = "não sei"
	badGenre := avatarBody("Avatar")
	badGenre["genre_id"] = testutil.MissingGenreID
	badLanguage := avatarBody("Avatar")
	badLanguage["language_id"] = 55
	negativeOscars := avatarBody("Avatar")
	negativeOscars["oscar_count"] = -1
	wrongType := avatarBody("Avatar")
	wrongType["genre_id"] = "dois"

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"malformed json", `{"title": "Avatar"`, utils.CodeInvalidPayload},
		{"missing title", noTitle, utils.CodeInvalidPayload},
		{"negative oscars", negativeOscars, utils.CodeInvalidPayload},
		{"wrong type", wrongType, utils.CodeInvalidPayload},
		{"invalid date", badDate, utils.CodeInvalidDate},
		{"unknown genre", badGenre, utils.CodeUnknownGenre},
		{"unknown language", badLanguage, utils.CodeUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/movies", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}

	var count int64
	require.NoError(t, db.Model(&model.Movie{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateMovie_ConcurrentSameTitle(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)

	const n = 4
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = doJSON(r, http.MethodPost, "/movies", avatarBody("Avatar")).Code
		}(i)
	}
	wg.Wait()

	// 查重与插入之间没有事务，只保证至少一次成功，其余为 201 或 409
	created := 0
	for _, code := range codes {
		assert.Contains(t, []int{http.StatusCreated, http.StatusConflict}, code)
		if code == http.StatusCreated {
			created++
		}
	}
	assert.GreaterOrEqual(t, created, 1)
}

func TestUpdateMovie_NotFound(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	seeded := testutil.SeedMovie(t, db, "Matrix", 4, nil)

	w := doJSON(r, http.MethodPut, "/movies/999", gin.H{"oscar_count": 10})
	require.Equal(t, http.StatusNotFound, w.Code)

	res := decodeError(t, w)
	assert.Equal(t, "Filme não encontrado", res.Message)
	assert.Equal(t, utils.CodeNotFound, res.Code)

	var reloaded model.Movie
	require.NoError(t, db.First(&reloaded, seeded.ID).Error)
	assert.Equal(t, 4, reloaded.OscarCount)
}

func TestUpdateMovie_PartialUpdate(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	release := testutil.Date(1997, time.December, 19)
	seeded := testutil.SeedMovie(t, db, "Titanic", 10, release)

	w := doJSON(r, http.MethodPut, "/movies/"+strconv.Itoa(seeded.ID), gin.H{"oscar_count": 11, "genre_id": testutil.GenreDrama})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	var reloaded model.Movie
	require.NoError(t, db.First(&reloaded, seeded.ID).Error)
	assert.Equal(t, 11, reloaded.OscarCount)
	assert.Equal(t, testutil.GenreDrama, reloaded.GenreID)
	assert.Equal(t, "Titanic", reloaded.Title)
	assert.Equal(t, testutil.LanguageEN, reloaded.LanguageID)
	require.NotNil(t, reloaded.ReleaseDate)
	assert.True(t, release.Equal(*reloaded.ReleaseDate))
}

func TestUpdateMovie_ReleaseDate(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	seeded := testutil.SeedMovie(t, db, "Matrix", 4, nil)

	w := doJSON(r, http.MethodPut, "/movies/"+strconv.Itoa(seeded.ID), gin.H{"release_date": "1999-03-31"})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded model.Movie
	require.NoError(t, db.First(&reloaded, seeded.ID).Error)
	require.NotNil(t, reloaded.ReleaseDate)
	assert.True(t, testutil.Date(1999, time.March, 31).Equal(*reloaded.ReleaseDate))
}

func TestUpdateMovie_EmptyBody(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	seeded := testutil.SeedMovie(t, db, "Matrix", 4, nil)

	w := doJSON(r, http.MethodPut, "/movies/"+strconv.Itoa(seeded.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMovie_BadRequests(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	seeded := testutil.SeedMovie(t, db, "Matrix", 4, nil)
	path := "/movies/" + strconv.Itoa(seeded.ID)

	tests := []struct {
		name string
		path string
		body interface{}
		code string
	}{
		{"non numeric id", "/movies/abc", gin.H{"oscar_count": 1}, utils.CodeInvalidID},
		{"zero id", "/movies/0", gin.H{"oscar_count": 1}, utils.CodeInvalidID},
		{"malformed json", path, `{"oscar_count":`, utils.CodeInvalidPayload},
		{"empty title", path, gin.H{"title": ""}, utils.CodeInvalidPayload},
		{"invalid date", path, gin.H{"release_date": "amanhã"}, utils.CodeInvalidDate},
		{"unknown language", path, gin.H{"language_id": 42}, utils.CodeUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPut, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestUpdateMovie_TitleConflict(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	testutil.SeedMovie(t, db, "Avatar", 3, nil)
	titanic := testutil.SeedMovie(t, db, "Titanic", 11, nil)

	w := doJSON(r, http.MethodPut, "/movies/"+strconv.Itoa(titanic.ID), gin.H{"title": "avatar"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, utils.CodeDuplicateTitle, decodeError(t, w).Code)
}

func TestHealth(t *testing.T) {
	db := testutil.SetupDB(t)
	r := newTestRouter(t, db)
	testutil.SeedMovie(t, db, "Avatar", 3, nil)

	w := doJSON(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","movies":1}`, w.Body.String())
}
