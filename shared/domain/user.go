package domain

type User struct {
	Id       UserId
	Email    Email
	PassHash string
}

type Credentials struct {
	Id       UserId
	Password Password
}
