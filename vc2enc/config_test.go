/*
DESCRIPTION
  config_test.go tests Config.Validate's bound checks.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vc2enc

import (
	"testing"

	"github.com/ausocean/vc2enc/dwt"
)

func validConfig() Config {
	return Config{
		Width: 176, Height: 120, BitDepth: 8,
		Tolerance: 10, SliceWidth: 32, SliceHeight: 16,
		WaveletDepth: 4, Wavelet: dwt.HaarShift,
	}
}

func TestValidateOK(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero height", func(c *Config) { c.Height = 0 }},
		{"bad bit depth", func(c *Config) { c.BitDepth = 9 }},
		{"tolerance too high", func(c *Config) { c.Tolerance = 46 }},
		{"tolerance negative", func(c *Config) { c.Tolerance = -1 }},
		{"slice width too small", func(c *Config) { c.SliceWidth = 16 }},
		{"slice height too small", func(c *Config) { c.SliceHeight = 4 }},
		{"wavelet depth too large", func(c *Config) { c.WaveletDepth = 6 }},
		{"slice height under 2^depth", func(c *Config) { c.SliceHeight = 8 }},
		{"const_quant out of range", func(c *Config) { c.ConstQuantSet = true; c.ConstQuant = 116 }},
		{"negative fragment size", func(c *Config) { c.FragmentSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("Validate() = nil, want error for %s", tt.name)
			}
		})
	}
}

func TestValidateFragmentSizeDivisibility(t *testing.T) {
	c := validConfig() // num_x = 176/32 rounded up = 6.
	c.FragmentSize = 4
	if err := c.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for fragment_size not dividing num_x")
	}
	c.FragmentSize = 6
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestChromaShift(t *testing.T) {
	tests := []struct {
		fmt    PixelFormat
		wantX  uint
		wantY  uint
	}{
		{YUV420P, 1, 1},
		{YUV422P, 1, 0},
		{YUV444P, 0, 0},
	}
	for _, tt := range tests {
		c := Config{PixFormat: tt.fmt}
		x, y := c.chromaShift()
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("chromaShift(%v) = (%d,%d), want (%d,%d)", tt.fmt, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestDiffOffset(t *testing.T) {
	tests := []struct {
		depth int
		want  int32
	}{
		{8, 128},
		{10, 512},
		{12, 2048},
	}
	for _, tt := range tests {
		c := Config{BitDepth: tt.depth}
		if got := c.diffOffset(); got != tt.want {
			t.Errorf("diffOffset() for depth %d = %d, want %d", tt.depth, got, tt.want)
		}
	}
}
