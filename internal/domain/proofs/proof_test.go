package proofs_test

import (
	"bytes"
	"encoding/base64"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func pngProof(size int) proofs.Proof {
	data := append([]byte{}, pngHeader...)
	if size > len(data) {
		data = append(data, bytes.Repeat([]byte{0}, size-len(data))...)
	}
	return proofs.Proof{
		Filename:    "receipt.png",
		ContentType: "image/png",
		DataBase64:  base64.StdEncoding.EncodeToString(data),
	}
}

func TestProof_Check(t *testing.T) {
	testCases := []struct {
		name    string
		proof   proofs.Proof
		wantErr error
	}{
		{name: "valid png", proof: pngProof(1024)},
		{name: "exactly max size", proof: pngProof(proofs.MaxSize)},
		{name: "6 MB is rejected", proof: pngProof(6 * 1024 * 1024), wantErr: proofs.ErrTooLarge},
		{name: "one byte over", proof: pngProof(proofs.MaxSize + 1), wantErr: proofs.ErrTooLarge},
		{
			name:    "missing filename",
			proof:   proofs.Proof{ContentType: "image/png", DataBase64: "AAAA"},
			wantErr: proofs.ErrMissingFields,
		},
		{
			name:    "not base64",
			proof:   proofs.Proof{Filename: "a.png", ContentType: "image/png", DataBase64: "%%%%"},
			wantErr: proofs.ErrEncoding,
		},
		{
			name: "declared type not allowed",
			proof: proofs.Proof{
				Filename:    "a.gif",
				ContentType: "image/gif",
				DataBase64:  pngProof(64).DataBase64,
			},
			wantErr: proofs.ErrType,
		},
		{
			name: "content does not match an image",
			proof: proofs.Proof{
				Filename:    "a.png",
				ContentType: "image/png",
				DataBase64:  base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 not an image at all")),
			},
			wantErr: proofs.ErrType,
		},
		{
			name: "jpeg",
			proof: proofs.Proof{
				Filename:    "a.jpg",
				ContentType: "image/jpeg",
				DataBase64:  base64.StdEncoding.EncodeToString([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.proof.Check()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, proofs.IsPolicyError(err))
			assert.Equal(t, tc.wantErr.Error(), proofs.PolicyMessage(err))
		})
	}
}

func TestFromDataURL(t *testing.T) {
	p := proofs.FromDataURL("", "", "data:image/png;base64,AAAA")

	assert.Equal(t, "upload.png", p.Filename)
	assert.Equal(t, "image/png", p.ContentType)
	assert.Equal(t, "AAAA", p.DataBase64)

	p = proofs.FromDataURL("r.webp", "image/webp", "BBBB")
	assert.Equal(t, proofs.Proof{Filename: "r.webp", ContentType: "image/webp", DataBase64: "BBBB"}, p)
}
