package stego

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyErr  error
)

// testRSAKey generates one RSA-2048 keypair per test binary run.
func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testKeyErr != nil {
		t.Fatalf("generating test key: %v", testKeyErr)
	}
	return testKey
}

func TestDecodeFrame_RecoversEncodedFrame(t *testing.T) {
	priv := testRSAKey(t)
	tf, err := BuildTestFrame(TestFrameSpec{UserID: 123456789, PatchRows: 100, PatchCols: 14}, priv)
	if err != nil {
		t.Fatalf("building test frame: %v", err)
	}

	res, ok := DecodeFrame(tf.Frame)
	if !ok {
		t.Fatal("decode reported an undecodable frame")
	}
	if !res.HasUserID {
		t.Fatal("user ID vote failed on clean encoder output")
	}
	if res.UserID != 123456789 {
		t.Errorf("decoded user ID %d, want 123456789", res.UserID)
	}
	if !bytes.Equal(res.Signature, tf.Signature) {
		t.Error("extracted signature differs from the embedded one")
	}
	if !bytes.Equal(MessageBytes(res.RightSide), tf.Message) {
		t.Error("derived message differs from the signed one")
	}
	if res.Layout.RightEndIndex != 1 {
		t.Errorf("layout right end = %d, want 1", res.Layout.RightEndIndex)
	}
}

func TestDecodeFrame_ZeroPaddedUserID(t *testing.T) {
	priv := testRSAKey(t)
	tf, err := BuildTestFrame(TestFrameSpec{UserID: 42, PatchRows: 100, PatchCols: 14}, priv)
	if err != nil {
		t.Fatalf("building test frame: %v", err)
	}

	res, ok := DecodeFrame(tf.Frame)
	if !ok || !res.HasUserID {
		t.Fatal("decode failed")
	}
	if res.UserID != 42 {
		t.Errorf("decoded user ID %d, want 42", res.UserID)
	}
}

func TestDecodeFrame_DegenerateFrameIsSafe(t *testing.T) {
	f := &Frame{Width: 10, Height: 10, Pix: make([]byte, 10*10*4)}
	if res, ok := DecodeFrame(f); ok || res != nil {
		t.Errorf("10x10 frame decoded to %+v, want undecodable", res)
	}
}

func TestDecodeFrame_LayoutDoesNotFit(t *testing.T) {
	// 100x13 patches: the signature needs all 13 columns, no payload left.
	f := &Frame{Width: 13 * PatchSize, Height: 100 * PatchSize}
	f.Pix = make([]byte, f.Width*f.Height*4)
	if _, ok := DecodeFrame(f); ok {
		t.Error("frame without a payload region decoded successfully")
	}
}

func TestDecodeFrame_UnwatermarkedContent(t *testing.T) {
	// Uniform mid-gray content decodes geometrically but the digit vote
	// must fail: every right-side sum is far outside [0,9].
	luma := bytes.Repeat([]byte{128}, 224*1600)
	f := FrameFromLuma(luma, 224, 1600)

	res, ok := DecodeFrame(f)
	if !ok {
		t.Fatal("geometry should be decodable")
	}
	if res.HasUserID {
		t.Error("user ID decoded from unwatermarked content")
	}
}
