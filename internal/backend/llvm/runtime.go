package llvm

// runtimeDecls are the libc and intrinsic declarations every module uses.
const runtimeDecls = `declare i32 @printf(i8*, ...)
declare i8* @malloc(i64)
declare i64 @strlen(i8*)
declare i32 @strcmp(i8*, i8*)
declare i32 @snprintf(i8*, i64, i8*, ...)
declare void @llvm.memcpy.p0i8.p0i8.i64(i8*, i8*, i64, i1)
declare double @llvm.pow.f64(double, double)
`

// runtimeDefs are the small helper routines the lowered code calls for
// printing, concatenation and string equality. Kept as literal IR so the
// module stays self-contained.
const runtimeDefs = `@.fmt.num = private unnamed_addr constant [4 x i8] c"%f\0A\00"
@.fmt.bool = private unnamed_addr constant [4 x i8] c"%d\0A\00"
@.fmt.str = private unnamed_addr constant [4 x i8] c"%s\0A\00"
@.fmt.numstr = private unnamed_addr constant [3 x i8] c"%f\00"
@.str.lit.true = private unnamed_addr constant [5 x i8] c"true\00"
@.str.lit.false = private unnamed_addr constant [6 x i8] c"false\00"

define i8* @hulk_concat(i8* %a, i8* %b) {
bb0:
  %la = call i64 @strlen(i8* %a)
  %lb = call i64 @strlen(i8* %b)
  %sum = add i64 %la, %lb
  %len = add i64 %sum, 1
  %buf = call i8* @malloc(i64 %len)
  call void @llvm.memcpy.p0i8.p0i8.i64(i8* %buf, i8* %a, i64 %la, i1 false)
  %tail = getelementptr i8, i8* %buf, i64 %la
  %lb1 = add i64 %lb, 1
  call void @llvm.memcpy.p0i8.p0i8.i64(i8* %tail, i8* %b, i64 %lb1, i1 false)
  ret i8* %buf
}

define i1 @hulk_str_eq(i8* %a, i8* %b) {
bb0:
  %c = call i32 @strcmp(i8* %a, i8* %b)
  %eq = icmp eq i32 %c, 0
  ret i1 %eq
}

define i8* @hulk_num_to_str(double %v) {
bb0:
  %buf = call i8* @malloc(i64 32)
  %fmt = getelementptr inbounds [3 x i8], [3 x i8]* @.fmt.numstr, i64 0, i64 0
  %n = call i32 (i8*, i64, i8*, ...) @snprintf(i8* %buf, i64 32, i8* %fmt, double %v)
  ret i8* %buf
}

define i8* @hulk_bool_to_str(i1 %v) {
bb0:
  %t = getelementptr inbounds [5 x i8], [5 x i8]* @.str.lit.true, i64 0, i64 0
  %f = getelementptr inbounds [6 x i8], [6 x i8]* @.str.lit.false, i64 0, i64 0
  %s = select i1 %v, i8* %t, i8* %f
  ret i8* %s
}

define void @hulk_print_num(double %v) {
bb0:
  %fmt = getelementptr inbounds [4 x i8], [4 x i8]* @.fmt.num, i64 0, i64 0
  %n = call i32 (i8*, ...) @printf(i8* %fmt, double %v)
  ret void
}

define void @hulk_print_bool(i1 %v) {
bb0:
  %w = zext i1 %v to i32
  %fmt = getelementptr inbounds [4 x i8], [4 x i8]* @.fmt.bool, i64 0, i64 0
  %n = call i32 (i8*, ...) @printf(i8* %fmt, i32 %w)
  ret void
}

define void @hulk_print_str(i8* %v) {
bb0:
  %fmt = getelementptr inbounds [4 x i8], [4 x i8]* @.fmt.str, i64 0, i64 0
  %n = call i32 (i8*, ...) @printf(i8* %fmt, i8* %v)
  ret void
}

`
