package main

// QPov
//
// Copyright (C) Thomas Habets <thomas@habets.se> 2015
// https://github.com/ThomasHabets/qpov
//
//   This program is free software; you can redistribute it and/or modify
//   it under the terms of the GNU General Public License as published by
//   the Free Software Foundation; either version 2 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU General Public License for more details.
//
//   You should have received a copy of the GNU General Public License along
//   with this program; if not, write to the Free Software Foundation, Inc.,
//   51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

import (
	"io"
	"os"

	storage "cloud.google.com/go/storage"
	"golang.org/x/net/context"
	cloudopt "google.golang.org/api/option"
)

// uploader copies converted maps to a cloud storage bucket.
type uploader struct {
	client *storage.Client
	bucket string
}

// newUploader connects to cloud storage. Without a credentials file the
// default credentials are used.
func newUploader(ctx context.Context, bucket, credentials string) (*uploader, error) {
	var opts []cloudopt.ClientOption
	if credentials != "" {
		opts = append(opts, cloudopt.WithServiceAccountFile(credentials))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &uploader{
		client: client,
		bucket: bucket,
	}, nil
}

func (u *uploader) upload(ctx context.Context, fn, name string) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	w := u.client.Bucket(u.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (u *uploader) Close() error {
	return u.client.Close()
}
