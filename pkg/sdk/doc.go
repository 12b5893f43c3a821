// Package strdex embeds the strdex string store in a Go program.
//
// It wires the same analysis, filtering and natural-language translation the
// HTTP server uses, on top of an in-process memory store or a Redis, Valkey
// or PostgreSQL backend.
//
//	client, _ := strdex.New(ctx, strdex.WithMemory())
//	defer client.Close()
//
//	s, _ := client.Strings().Create(ctx, "racecar")
//	fmt.Println(s.Properties.IsPalindrome) // true
//
//	res, _ := client.Strings().Search(ctx, "all single word palindromic strings")
//	fmt.Println(res.Filters) // map[is_palindrome:true word_count:1]
package strdex
