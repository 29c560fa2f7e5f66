package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_DecodesAndAssignsIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/public/get", r.URL.Path)
		_, _ = io.WriteString(w, `[{"product_name":"Pen","product_type":"Books","price":10,"tax":2,"image":""},
			{"product_name":"Phone","product_type":"Phone","price":"999.5","tax":18,"image":"https://img/p.jpg"}]`)
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL+"/", nil)
	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Pen", products[0].Name)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("999.5")))
	assert.NotEmpty(t, products[0].ID)
	assert.NotEqual(t, products[0].ID, products[1].ID)
}

func TestListProducts_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, nil).ListProducts(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestListProducts_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"an array"}`)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, nil).ListProducts(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestListProducts_ServerDown(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	_, err := NewHTTPClient(ts.URL, nil).ListProducts(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestAddProduct_SendsMultipartForm(t *testing.T) {
	var got map[string]string
	var gotFile []byte
	var gotFileName, gotFileType string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/public/add", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		fh := r.MultipartForm.File["files[]"][0]
		gotFileName = fh.Filename
		gotFileType = fh.Header.Get("Content-Type")
		f, err := fh.Open()
		require.NoError(t, err)
		gotFile, _ = io.ReadAll(f)

		_, _ = io.WriteString(w, `{"message":"Product added Successfully!","success":true}`)
	}))
	defer ts.Close()

	msg, err := NewHTTPClient(ts.URL, nil).AddProduct(context.Background(), AddProductRequest{
		Name:  "Pen",
		Type:  "Books",
		Price: decimal.NewFromInt(10),
		Tax:   decimal.RequireFromString("2.5"),
		Image: []byte{0xff, 0xd8, 0xff},
	})
	require.NoError(t, err)
	assert.Equal(t, "Product added Successfully!", msg)

	assert.Equal(t, map[string]string{"product_name": "Pen", "product_type": "Books", "price": "10", "tax": "2.5"}, got)
	assert.Equal(t, "image.jpg", gotFileName)
	assert.Equal(t, "image/jpeg", gotFileType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, gotFile)
}

func TestAddProduct_NoImageNoFilePart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Empty(t, r.MultipartForm.File)
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, nil).AddProduct(context.Background(), AddProductRequest{Name: "Pen", Type: "Books"})
	require.NoError(t, err)
}

func TestAddProduct_ResponseWithoutMessageFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, nil).AddProduct(context.Background(), AddProductRequest{Name: "Pen"})
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestAddProduct_ErrorStatusFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"bad"}`)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, nil).AddProduct(context.Background(), AddProductRequest{Name: "Pen"})
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestFetchImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jpegbytes"))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, nil)
	b, err := c.FetchImage(context.Background(), ts.URL+"/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(b))

	_, err = c.FetchImage(context.Background(), ts.URL+"/missing.jpg")
	require.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestPing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))

	c := NewHTTPClient(ts.URL, nil)
	require.NoError(t, c.Ping(context.Background()))

	ts.Close()
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}
